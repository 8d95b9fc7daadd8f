package procnet

import (
	"github.com/viant/procnet/extension"
	"github.com/viant/procnet/runtime/exec"
	"github.com/viant/x"
)

// Option customizes the service façade.
type Option func(s *Service)

// WithExtensionTypes registers Go state types referable from manifests.
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithProcessBody registers a natively implemented process body; manifests
// reference it with ref and declare their state by the registered type name.
func WithProcessBody(name, stateType string, fn exec.CompiledFn) Option {
	return func(s *Service) {
		s.extensionBodies = append(s.extensionBodies, &extension.Body{
			Name:      name,
			StateType: stateType,
			Fn:        fn,
		})
	}
}

// WithQueueCapacity bounds every streaming queue at n payloads.
func WithQueueCapacity(n int) Option {
	return func(s *Service) {
		s.queueCapacity = n
	}
}

// WithHandler interposes on every committed channel op of every runtime the
// service builds.
func WithHandler(handler exec.Handler) Option {
	return func(s *Service) {
		s.handler = handler
	}
}

// WithBaseURL resolves relative manifest locations against baseURL.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}
