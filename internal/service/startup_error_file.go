package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteStartupErrorFile records a startup failure in dir as
// "<name>-startup-error.log", replacing any earlier record. It is for
// failures that happen before logging is configured.
func WriteStartupErrorFile(dir, name string, err error) {
	_ = os.MkdirAll(dir, 0755)

	f, ferr := os.Create(filepath.Join(dir, name+"-startup-error.log"))
	if ferr != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] %s STARTUP ERROR\n%v\n", time.Now().Format("2006-01-02 15:04:05"), name, err)
}
