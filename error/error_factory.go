package error

import "errors"

var (
	NoSuitableRegions = errors.New("no suitable memory regions could be found")
	HandleUnopenable  = errors.New("cannot open the target memory handle")
	RegionUnreadable  = errors.New("cannot read a memory region of the target")
	WriteFailed       = errors.New("write to the target memory failed")
	ParseInvalid      = errors.New("value cannot be interpreted as a number")
)
