package common

import "fmt"

// ShPrintf prints fmtStr at logLevel when that level is enabled in
// LogLevelSetting. Kept deliberately simple: the buffer manager has no
// structured-logging requirement of its own, and the teacher never reaches
// for one either.
func ShPrintf(logLevel LogLevel, fmtStr string, a ...interface{}) {
	if logLevel&LogLevelSetting > 0 {
		fmt.Printf(fmtStr, a...)
	}
}
