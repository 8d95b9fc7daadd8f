package procnet

import (
	"context"
	"fmt"
	"reflect"

	"github.com/viant/procnet/extension"
	"github.com/viant/procnet/model"
	"github.com/viant/procnet/runtime/exec"
	"github.com/viant/procnet/service/channel"
	"github.com/viant/procnet/service/compiler"
	"github.com/viant/procnet/service/dao/network"
	"github.com/viant/x"
)

// Service is the procnet façade: it loads network manifests, compiles
// process bodies and assembles runtimes.
type Service struct {
	types    *extension.Types
	bodies   *extension.Bodies
	dao      *network.Service
	compiler *compiler.Service

	extensionTypes  []*x.Type
	extensionBodies []*extension.Body
	handler         exec.Handler
	queueCapacity   int
	baseURL         string
}

// New creates a service.
func New(options ...Option) *Service {
	service := &Service{}
	for _, option := range options {
		option(service)
	}
	service.types = extension.NewTypes()
	for _, t := range service.extensionTypes {
		if t != nil {
			service.types.Register(t)
		}
	}
	service.bodies = extension.NewBodies(service.types)
	for _, body := range service.extensionBodies {
		service.bodies.Register(body)
	}
	service.dao = network.New(network.WithBaseURL(service.baseURL))
	service.compiler = compiler.New()
	return service
}

// Types returns the state type registry.
func (s *Service) Types() *extension.Types {
	return s.types
}

// Bodies returns the native body registry.
func (s *Service) Bodies() *extension.Bodies {
	return s.bodies
}

// LoadNetwork loads and validates a network manifest from the supplied URL.
func (s *Service) LoadNetwork(ctx context.Context, URL string) (*model.Network, error) {
	return s.dao.Load(ctx, URL)
}

// DecodeNetwork decodes and validates an in-memory YAML manifest.
func (s *Service) DecodeNetwork(data []byte) (*model.Network, error) {
	return s.dao.DecodeYAML(data)
}

// NewRuntime allocates the network's queues, compiles every process and
// returns a driver over them. Construction fails on the first unresolved
// channel id, duplicate declaration or compile issue; a partially usable
// runtime is never returned.
func (s *Service) NewRuntime(net *model.Network) (*Runtime, error) {
	if net == nil {
		return nil, fmt.Errorf("network cannot be nil")
	}
	var channelOptions []channel.Option
	if s.queueCapacity > 0 {
		channelOptions = append(channelOptions, channel.WithCapacity(s.queueCapacity))
	}
	queues, err := channel.New(net.Channels, channelOptions...)
	if err != nil {
		return nil, err
	}
	runtime := newRuntime(net, queues)
	for _, process := range net.Processes {
		definition, fn, initial, err := s.resolveProcess(process, net)
		if err != nil {
			return nil, err
		}
		var execOptions []exec.Option
		if s.handler != nil {
			execOptions = append(execOptions, exec.WithHandler(s.handler))
		}
		procRuntime, err := exec.New(definition, fn, queues, execOptions...)
		if err != nil {
			return nil, err
		}
		runtime.register(process.Name, procRuntime, initial)
	}
	return runtime, nil
}

// resolveProcess compiles an interpreted body or resolves a registered
// native one, together with the process's initial state.
func (s *Service) resolveProcess(process *model.Process, net *model.Network) (exec.Definition, exec.CompiledFn, interface{}, error) {
	if process.Ref == "" {
		definition, fn, err := s.compiler.Compile(process, net.Channels)
		return definition, fn, process.Init, err
	}
	body := s.bodies.Lookup(process.Ref)
	if body == nil {
		return exec.Definition{}, nil, nil, fmt.Errorf("process %v: unknown body ref %q", process.Name, process.Ref)
	}
	definition := exec.Definition{Name: process.Name}
	stateType := process.StateType
	if stateType == "" {
		stateType = body.StateType
	}
	if stateType != "" {
		registered := s.types.Lookup(stateType)
		if registered == nil {
			return definition, nil, nil, fmt.Errorf("process %v: unknown state type %q", process.Name, stateType)
		}
		definition.StateType = registered.Type
	}
	for _, paramType := range body.ParamTypes {
		registered := s.types.Lookup(paramType)
		if registered == nil {
			return definition, nil, nil, fmt.Errorf("process %v: unknown param type %q", process.Name, paramType)
		}
		definition.ParamTypes = append(definition.ParamTypes, registered.Type)
	}
	var initial interface{}
	if definition.StateType != nil {
		initial = reflect.New(definition.StateType).Elem().Interface()
	}
	return definition, body.Fn, initial, nil
}
