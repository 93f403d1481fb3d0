package cli

import (
	"strconv"

	"github.com/lu-zhengda/portcheck/internal/port"
)

// portValue is a --port flag that only accepts base-10 numbers, so "010"
// means port 10 and "0x1F90" is rejected.
type portValue port.Port

func (v *portValue) String() string {
	return strconv.FormatUint(uint64(*v), 10)
}

func (v *portValue) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return err
	}
	*v = portValue(n)
	return nil
}

func (v *portValue) Type() string {
	return "uint16"
}
