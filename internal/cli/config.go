package cli

import (
	stderrors "errors"
	"io/fs"
	"net"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	terrors "github.com/matzehuels/treetable/pkg/errors"
	pkgio "github.com/matzehuels/treetable/pkg/io"
)

// Config is the optional TOML configuration file.
//
//	root_parent_id = "0"
//	id_key = "key"
//	parent_id_key = "parent"
//	children_key = "children"
//	expand_all = true
//
//	[serve]
//	addr = "127.0.0.1:8420"
//
//	[tui]
//	persist_state = true
type Config struct {
	RootParentID string `toml:"root_parent_id"`
	IDKey        string `toml:"id_key"`
	ParentIDKey  string `toml:"parent_id_key"`
	ChildrenKey  string `toml:"children_key"`
	ExpandAll    bool   `toml:"expand_all"`

	Serve ServeConfig `toml:"serve"`
	TUI   TUIConfig   `toml:"tui"`
}

// ServeConfig configures the HTTP host.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// TUIConfig configures the terminal UI.
type TUIConfig struct {
	// PersistState remembers expanded rows per file between runs.
	PersistState bool `toml:"persist_state"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		IDKey:       pkgio.DefaultIDKey,
		ParentIDKey: pkgio.DefaultParentIDKey,
		ChildrenKey: pkgio.DefaultChildrenKey,
		ExpandAll:   true,
		Serve:       ServeConfig{Addr: defaultAddr},
		TUI:         TUIConfig{PersistState: true},
	}
}

// Validate checks field keys and the listen address.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.IDKey, validation.Required, validation.By(fieldKey)),
		validation.Field(&c.ParentIDKey, validation.Required, validation.By(fieldKey),
			validation.NotIn(c.IDKey).Error("must differ from id_key")),
		validation.Field(&c.ChildrenKey, validation.Required, validation.By(fieldKey),
			validation.NotIn(c.IDKey, c.ParentIDKey).Error("must differ from id_key and parent_id_key")),
		validation.Field(&c.RootParentID, validation.Length(0, 256)),
		validation.Field(&c.Serve),
	)
}

// Validate checks the listen address.
func (s ServeConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required, validation.By(hostPort)),
	)
}

func fieldKey(v any) error {
	s, _ := v.(string)
	if err := terrors.ValidateFieldKey(s); err != nil {
		return stderrors.New(terrors.UserMessage(err))
	}
	return nil
}

func hostPort(v any) error {
	s, _ := v.(string)
	if _, _, err := net.SplitHostPort(s); err != nil {
		return stderrors.New("must be host:port")
	}
	return nil
}

// loadConfig reads the config file at path on top of [DefaultConfig].
// A missing file is only an error when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	if err := terrors.ValidatePath(path); err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if explicit {
				return cfg, terrors.New(terrors.ErrCodeFileNotFound, "config file not found: %s", path)
			}
			return cfg, nil
		}
		return cfg, terrors.Wrap(terrors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid config %s", path)
	}
	return cfg, nil
}
