package cmd

import "github.com/spf13/pflag"

func mustString(f *pflag.FlagSet, name string) string {
	s, err := f.GetString(name)
	if err != nil {
		panic(err)
	}
	return s
}
