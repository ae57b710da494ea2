package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	origVerbose := Verbose
	defer func() {
		Verbose = origVerbose
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debugf("resolving %s", "a.Main")
	output := buf.String()
	if !strings.Contains(output, "[DEBUG] resolving a.Main") {
		t.Errorf("Expected debug message, got: %s", output)
	}

	buf.Reset()
	SetVerbose(false)
	Debugf("should not appear")
	Warnf("should not appear either")
	if buf.Len() > 0 {
		t.Errorf("Expected no output when verbose=false, got: %s", buf.String())
	}

	buf.Reset()
	Errorf("cannot open %s", "lib.jar")
	output = buf.String()
	if !strings.Contains(output, "[ERROR] cannot open lib.jar") {
		t.Errorf("Expected error message even with verbose=false, got: %s", output)
	}
}

func TestLogLevels(t *testing.T) {
	origVerbose := Verbose
	defer func() {
		Verbose = origVerbose
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debugf("debug")
	Infof("info")
	Warnf("warn")
	Errorf("error")

	output := buf.String()
	for _, level := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"} {
		if !strings.Contains(output, level) {
			t.Errorf("Expected %s in output, got: %s", level, output)
		}
	}
}

func TestComponent(t *testing.T) {
	origVerbose := Verbose
	defer func() {
		Verbose = origVerbose
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	c := Component("closure")
	c.Warnf("%s cannot be decoded", "a.Broken")
	if !strings.Contains(buf.String(), "[WARN] [closure] a.Broken cannot be decoded") {
		t.Errorf("Expected tagged warning, got: %s", buf.String())
	}
}
