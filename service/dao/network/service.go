// Package network loads process network manifests from YAML documents.
package network

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/procnet/internal/yml"
	"github.com/viant/procnet/model"
	"github.com/viant/procnet/service/dao/network/body"
	"github.com/viant/procnet/tracing"
	"gopkg.in/yaml.v3"
)

// Service loads and decodes network manifests.
type Service struct {
	fs      afs.Service
	baseURL string
}

// Option customizes the loader.
type Option func(s *Service)

// WithBaseURL resolves relative manifest locations against baseURL.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithFS replaces the abstract file system used to fetch manifests.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// New creates a manifest loader.
func New(options ...Option) *Service {
	service := &Service{fs: afs.New()}
	for _, option := range options {
		option(service)
	}
	return service
}

// Load loads a network manifest from YAML at the specified URL.
func (s *Service) Load(ctx context.Context, URL string) (network *model.Network, err error) {
	ctx, span := tracing.StartSpan(ctx, "network.Load "+URL, "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	if filepath.Ext(URL) == "" {
		URL += ".yaml"
	}
	if s.baseURL != "" && !strings.Contains(URL, "://") {
		URL = url.Join(s.baseURL, URL)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load network from %s: %w", URL, err)
	}
	network, err = s.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse network from %s: %w", URL, err)
	}
	if network.Name == "" {
		network.Name = networkNameFromURL(URL)
	}
	return network, nil
}

// DecodeYAML decodes a network manifest and validates the result.
func (s *Service) DecodeYAML(encoded []byte) (*model.Network, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	network := &model.Network{}
	err := (*yml.Node)(&node).Root().Pairs(func(key string, value *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			network.Name = value.Text()
		case "channels":
			return value.Items(func(_ int, item *yml.Node) error {
				channel, err := parseChannel(item)
				if err != nil {
					return err
				}
				network.Channels = append(network.Channels, channel)
				return nil
			})
		case "processes":
			return value.Items(func(_ int, item *yml.Node) error {
				process, err := parseProcess(item)
				if err != nil {
					return err
				}
				network.Processes = append(network.Processes, process)
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if issues := network.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	return network, nil
}

func parseChannel(node *yml.Node) (*model.Channel, error) {
	channel := &model.Channel{}
	err := node.Pairs(func(key string, value *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			channel.Name = value.Text()
		case "id":
			channel.ID = model.ChannelID(value.Int())
		case "kind":
			channel.Kind = model.Kind(value.Text())
		case "width":
			channel.Width = int(value.Int())
		default:
			return fmt.Errorf("channel: unsupported attribute %q", key)
		}
		return nil
	})
	return channel, err
}

func parseProcess(node *yml.Node) (*model.Process, error) {
	process := &model.Process{}
	var bodyText string
	err := node.Pairs(func(key string, value *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			process.Name = value.Text()
		case "statewidth":
			process.StateWidth = int(value.Int())
		case "init":
			process.Init = value.Uint()
		case "body":
			bodyText = value.Text()
		case "ref":
			process.Ref = value.Text()
		case "statetype":
			process.StateType = value.Text()
		default:
			return fmt.Errorf("process %v: unsupported attribute %q", process.Name, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bodyText != "" {
		parsed, err := body.Parse([]byte(bodyText))
		if err != nil {
			return nil, fmt.Errorf("process %v: %w", process.Name, err)
		}
		process.Body = parsed.Nodes
		process.InitToken = parsed.InitToken
		process.NextToken = parsed.NextToken
		process.NextState = parsed.NextState
	}
	return process, nil
}

// networkNameFromURL extracts the network name from a URL (file name without
// extension).
func networkNameFromURL(URL string) string {
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
