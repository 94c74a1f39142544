package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMaps = `5593a0b0e000-5593a0b0f000 r--p 00000000 103:02 2228246 /usr/bin/target
5593a0b2f000-5593a0b50000 rw-p 00000000 00:00 0 [heap]
7f10c0000000-7f10c0021000 rw-p 00000000 00:00 0
7f10c6800000-7f10c6a02000 rw-p 00000000 103:02 393288 /usr/lib/libc.so.6
7f10c6b00000-7f10c6b21000 rw-p 00000000 103:02 393300 /home/u/app/plugin.so
7f10c6c00000-7f10c6c21000 rw-p 00000000 103:02 393301 /home/u/app/data.so.1.2
7f10c6d00000-7f10c6d21000 r-xp 00000000 103:02 393302 /home/u/app/code
7f10c6e00000-7f10c6e21000 rw-s 00000000 00:00 1234 /memfd:scratch (deleted)
7f10c6f00000-7f10c6f21000 rw-p 00000000 103:02 400000 /opt/wine/lib/winex11.drv
7f10c7000000-7f10c7021000 rw-p 00000000 103:02 400001 /opt/game/engine.dll
7f10c7100000-7f10c7121000 rw-p 00000000 103:02 400002 /usr/local/bin/wine64
7f10c7200000-7f10c7221000 rw-p 00000000 00:00 0 /dev/zero (deleted)
7ffd1c000000-7ffd1c021000 rw-p 00000000 00:00 0 [stack]
`

func TestParseRegions(t *testing.T) {
	regions, err := parseRegions(strings.NewReader(sampleMaps), false)
	require.NoError(t, err)

	// Only [heap], the anonymous mapping and [stack] survive the
	// permission and path filters.
	require.Len(t, regions, 3)

	// The stack is moved to the front so a budget cutoff still
	// covers it.
	assert.Equal(t, uint64(0x7ffd1c000000), regions[0].Start)
	assert.Equal(t, uint64(0x7ffd1c021000), regions[0].End)

	assert.Equal(t, uint64(0x5593a0b2f000), regions[1].Start)
	assert.Equal(t, uint64(0x7f10c0000000), regions[2].Start)

	for i, region := range regions {
		assert.Equal(t, uint16(i), region.ID)
		assert.False(t, region.Ignored)
		assert.Greater(t, region.End, region.Start)
	}
}

func TestParseRegionsStackOnly(t *testing.T) {
	regions, err := parseRegions(strings.NewReader(sampleMaps), true)
	require.NoError(t, err)

	require.Len(t, regions, 1)
	assert.Equal(t, uint64(0x7ffd1c000000), regions[0].Start)
}

func TestParseRegionsSkips(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not writable", "1000-2000 r--p 00000000 00:00 0 [heap]"},
		{"executable only", "1000-2000 r-xp 00000000 00:00 0"},
		{"lib prefix", "1000-2000 rw-p 00000000 103:02 1 /lib/foo"},
		{"usr lib prefix", "1000-2000 rw-p 00000000 103:02 1 /usr/lib/foo"},
		{"dev", "1000-2000 rw-p 00000000 00:00 0 /dev/dri/card0"},
		{"memfd", "1000-2000 rw-p 00000000 00:00 0 /memfd:pulse (deleted)"},
		{"shared object", "1000-2000 rw-p 00000000 103:02 1 /opt/app/libfoo.so"},
		{"versioned shared object", "1000-2000 rw-p 00000000 103:02 1 /opt/app/libfoo.so.1.2.3"},
		{"dll", "1000-2000 rw-p 00000000 103:02 1 /c/windows/user32.dll"},
		{"drv", "1000-2000 rw-p 00000000 103:02 1 /opt/wine/winex11.drv"},
		{"wine64", "1000-2000 rw-p 00000000 103:02 1 /usr/bin/wine64"},
		{"wine64 preloader", "1000-2000 rw-p 00000000 103:02 1 /usr/bin/wine64-preloader"},
		{"short line", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regions, err := parseRegions(strings.NewReader(tt.line+"\n"), false)
			require.NoError(t, err)
			assert.Empty(t, regions)
		})
	}
}

func TestParseRegionsEmpty(t *testing.T) {
	regions, err := parseRegions(strings.NewReader(""), false)
	require.NoError(t, err)
	assert.Empty(t, regions)
}
