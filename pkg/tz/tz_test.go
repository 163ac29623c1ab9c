package tz

import (
	"testing"
	"time"
)

func TestSet(t *testing.T) {
	if Local() != time.UTC {
		t.Fatalf("default = %v", Local())
	}
	loc := time.FixedZone("MSK", 3*3600)
	Set(loc)
	Set(nil)
	if Local() != loc {
		t.Fatalf("Local = %v", Local())
	}
}
