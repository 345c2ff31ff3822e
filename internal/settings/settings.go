package settings

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml"
)

// Settings are the environment settings passed along with every command. They influence how
// text is inserted and how much work the command engine is willing to do.
type Settings struct {
	TabSpace         int    `toml:"tab-space"`
	UseSpacesForTabs bool   `toml:"use-spaces-for-tabs"`
	MaxNesting       int    `toml:"max-nesting"`
	RegexCacheSize   int    `toml:"regex-cache-size"`
	Shell            string `toml:"shell"`
	HistorySize      int    `toml:"history-size"`
}

func Default() Settings {
	return Settings{
		TabSpace:       8,
		MaxNesting:     64,
		RegexCacheSize: 64,
		Shell:          "sh",
		HistorySize:    100,
	}
}

var ConfDir string

func init() {
	if runtime.GOOS == "windows" {
		ConfDir = fmt.Sprintf("%s/.edcmd", os.Getenv("USERPROFILE"))
	} else {
		ConfDir = fmt.Sprintf("%s/.edcmd", os.Getenv("HOME"))
	}
}

func ConfigFile() string {
	return filepath.Join(ConfDir, "settings.toml")
}

func HistoryFile() string {
	return filepath.Join(ConfDir, "history")
}

// Load reads settings from the file at path. Values missing from the file keep
// their defaults. A missing file is not an error.
func Load(path string) (s Settings, err error) {
	s = Default()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return
	}
	defer f.Close()

	err = Decode(f, &s)
	return
}

// Decode decodes TOML settings from r into s, then repairs values that would make
// the engine misbehave.
func Decode(r io.Reader, s *Settings) error {
	dec := toml.NewDecoder(r)
	if err := dec.Decode(s); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	s.fix()
	return nil
}

func (s *Settings) fix() {
	d := Default()
	if s.TabSpace < 1 {
		s.TabSpace = d.TabSpace
	}
	if s.MaxNesting < 1 {
		s.MaxNesting = d.MaxNesting
	}
	if s.RegexCacheSize < 1 {
		s.RegexCacheSize = d.RegexCacheSize
	}
	if s.HistorySize < 1 {
		s.HistorySize = d.HistorySize
	}
	if s.Shell == "" {
		s.Shell = d.Shell
	}
}
