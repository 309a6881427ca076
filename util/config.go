package util

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"time"
)

// LoadConfig fills the fields of the struct pointed to by c from environment variables
// named prefix + field name. Unset variables keep the current value of the field unless it is zero.
// Strings are taken as is, durations are parsed with time.ParseDuration and everything else is json.
func LoadConfig(prefix string, c any) error {
	rt, rc := reflect.TypeOf(c).Elem(), reflect.ValueOf(c).Elem()
	for i := 0; i < rt.NumField(); i++ {
		rft, rf := rt.Field(i), rc.Field(i)
		if !rft.IsExported() {
			continue
		}
		k := prefix + rft.Name
		s, ok := os.LookupEnv(k)
		if !ok && !rf.IsZero() {
			continue
		} else if !ok {
			return fmt.Errorf("failed to lookup %q in env", k)
		}
		switch {
		case rft.Type == reflect.TypeOf(time.Duration(0)):
			d, err := time.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("failed to parse %q(%s) from %q: %w", k, rft.Type, s, err)
			}
			rf.SetInt(int64(d))
		case rft.Type.Kind() == reflect.String:
			rf.SetString(s)
		default:
			if err := json.Unmarshal([]byte(s), rf.Addr().Interface()); err != nil {
				return fmt.Errorf("failed to unmarshal %q(%s) from %q: %w", k, rft.Type, s, err)
			}
		}
	}
	return nil
}
