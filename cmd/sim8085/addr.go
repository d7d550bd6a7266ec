package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/oisee/sim8085/pkg/asm"
)

var _ pflag.Value = (*addrFlag)(nil)

// addrFlag is a pflag.Value for 16-bit addresses written the assembler
// way: 2000H, 0x2000 or 8192.
type addrFlag struct {
	v   uint16
	set bool
}

func (a *addrFlag) String() string {
	return fmt.Sprintf("%04XH", a.v)
}

func (a *addrFlag) Set(s string) error {
	v, err := parseAddr(s)
	if err != nil {
		return err
	}
	a.v, a.set = v, true
	return nil
}

func (a *addrFlag) Type() string {
	return "addr"
}

func parseAddr(s string) (uint16, error) {
	v, err := asm.ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("address %s out of range", s)
	}
	return uint16(v), nil
}

func parseAddrs(list []string) ([]uint16, error) {
	out := make([]uint16, 0, len(list))
	for _, s := range list {
		v, err := parseAddr(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
