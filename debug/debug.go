package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Build    bool
	Validate bool
	LSP      bool
}

var d *debug

func init() {
	d = &debug{}
	d.Build = boolEnv("JSL_DEBUG_BUILD")
	d.Validate = boolEnv("JSL_DEBUG_VALIDATE")
	d.LSP = boolEnv("JSL_DEBUG_LSP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Build() bool {
	return d.Build
}
func Validate() bool {
	return d.Validate
}
func LSP() bool {
	return d.LSP
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}
