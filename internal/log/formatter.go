package log

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// patternFormatter renders entries from a template supporting
// %time, %level, %field and %msg placeholders.
type patternFormatter struct {
	pattern string
	time    string
}

func (f *patternFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	output := f.pattern
	if output == "" {
		output = "%time [%level] %field %msg\n"
	}
	timeLayout := f.time
	if timeLayout == "" {
		timeLayout = "2006-01-02 15:04:05.000"
	}
	output = strings.Replace(output, "%time", entry.Time.Format(timeLayout), 1)
	output = strings.Replace(output, "%level", entry.Level.String(), 1)
	output = strings.Replace(output, "%field", buildFields(entry), 1)
	output = strings.Replace(output, "%msg", entry.Message, 1)
	return []byte(output), nil
}

func buildFields(entry *logrus.Entry) string {
	var fields []string
	for key, val := range entry.Data {
		stringVal, ok := val.(string)
		if !ok {
			stringVal = fmt.Sprint(val)
		}
		fields = append(fields, key+"="+stringVal)
	}
	return strings.Join(fields, ",")
}
