package istack

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
[stack]
path = "slices"
extension = "png"

[logging]
logfile = "logs/stack.log"
max_log_size = 500
max_log_age = 30

[kafka]
servers = ["kafka1:9092", "kafka2:9092"]
topicactivity = "stack-activity"
`

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "imagestack-config-test-")
	if err != nil {
		t.Fatalf("Unable to make temp dir: %v\n", err)
	}
	defer os.RemoveAll(dir)

	fname := filepath.Join(dir, "config.toml")
	if err := ioutil.WriteFile(fname, []byte(testConfig), 0644); err != nil {
		t.Fatalf("Unable to write config: %v\n", err)
	}

	c, err := LoadConfig(fname)
	if err != nil {
		t.Fatalf("Unable to load config: %v\n", err)
	}
	if c.Stack.Extension != "png" {
		t.Errorf("Bad extension: %q\n", c.Stack.Extension)
	}
	if want := filepath.Join(dir, "slices"); c.Stack.Path != want {
		t.Errorf("Relative stack path not converted: got %q, want %q\n", c.Stack.Path, want)
	}
	if want := filepath.Join(dir, "logs", "stack.log"); c.Logging.Logfile != want {
		t.Errorf("Relative logfile not converted: got %q, want %q\n", c.Logging.Logfile, want)
	}
	if c.Logging.MaxSize != 500 || c.Logging.MaxAge != 30 {
		t.Errorf("Bad log rotation settings: %+v\n", c.Logging)
	}
	if c.Kafka == nil || len(c.Kafka.Servers) != 2 {
		t.Errorf("Bad kafka settings: %+v\n", c.Kafka)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Errorf("Expected error for empty config filename\n")
	}
	if _, err := LoadConfig("/no/such/config.toml"); err == nil {
		t.Errorf("Expected error for missing config file\n")
	}
}
