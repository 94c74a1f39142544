package terminal

import (
	"testing"

	"github.com/Toasterbirb/harava/pkg/scanner"
	"github.com/stretchr/testify/assert"
)

func TestCommandAliases(t *testing.T) {
	c := NewCommands(nil)

	for _, alias := range []string{"help", "h", "quit", "q", "exit", "reset", "=", "!", "<", "<=", ">", ">=", "repeat", "list", "ls", "set", "setall", "types"} {
		cmd := c.Find(alias)
		assert.True(t, cmd.match(alias), "alias %q not registered", alias)
	}

	unknown := c.Find("bogus")
	assert.Equal(t, []string{"nocmd"}, unknown.aliases)
}

func TestTypeFlagMapping(t *testing.T) {
	var filter scanner.TypeFilter

	for _, name := range []string{"i32", "i64", "f32", "f64"} {
		flag := typeFlag(&filter, name)
		if assert.NotNil(t, flag, name) {
			*flag = true
		}
	}

	assert.Equal(t, scanner.AllTypes(), filter)
	assert.Nil(t, typeFlag(&filter, "u8"))
}
