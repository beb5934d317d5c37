package grammar

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Registry installs grammars into injected highlighting engine. Each language
// is installed at most once. When engine does not implement Registrar all
// registrations are silently skipped.
type Registry struct {
	host      any
	installed map[string]struct{}
	log       *zap.Logger
}

func NewRegistry(host any, log *zap.Logger) *Registry {
	return &Registry{
		host:      host,
		installed: make(map[string]struct{}),
		log:       log.Named("grammar"),
	}
}

// Register installs language produced by factory under name unless it has
// been installed already.
func (r *Registry) Register(name string, factory Factory) error {
	reg, ok := r.host.(Registrar)
	if !ok {
		r.log.Debug("Engine cannot register languages, skipping", zap.String("language", name))
		return nil
	}
	if _, done := r.installed[name]; done {
		return nil
	}

	if err := reg.RegisterLanguage(name, factory); err != nil {
		if errors.Is(err, ErrNoBaseGrammar) {
			r.log.Warn("Language is not available", zap.String("language", name), zap.Error(err))
			return nil
		}
		return fmt.Errorf("unable to register language %q: %w", name, err)
	}
	r.installed[name] = struct{}{}

	r.log.Debug("Language registered", zap.String("language", name))
	return nil
}

// Registered reports whether language was installed by this registry.
func (r *Registry) Registered(name string) bool {
	_, ok := r.installed[name]
	return ok
}

// RegisterAll installs all custom languages.
func (r *Registry) RegisterAll() (err error) {
	err = multierr.Append(err, r.Register(CMakeExtName, CMakeExt))
	err = multierr.Append(err, r.Register(IDLName, IDL))
	return err
}
