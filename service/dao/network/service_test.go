package network

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/procnet/model"
)

const multiplierManifest = `name: multiplier
channels:
  - name: in
    id: 0
    kind: streaming
    width: 4
  - name: out
    id: 1
    kind: streaming
    width: 4
processes:
  - name: the_proc
    body: |
      k: literal(3, width=4)
      v: receive(tok, channel=0)
      p: umul(k, v)
      snd: send(v, p, channel=1)
      next(snd)
`

func TestService_DecodeYAML(t *testing.T) {
	var useCases = []struct {
		description string
		manifest    string
		expectErr   string
		verify      func(t *testing.T, network *model.Network)
	}{
		{
			description: "interpreted process",
			manifest:    multiplierManifest,
			verify: func(t *testing.T, network *model.Network) {
				assert.Equal(t, "multiplier", network.Name)
				assert.Len(t, network.Channels, 2)
				assert.Equal(t, model.KindStreaming, network.Channels[0].Kind)
				process := network.Processes[0]
				assert.Equal(t, "the_proc", process.Name)
				assert.Equal(t, "tok", process.InitToken)
				assert.Equal(t, "snd", process.NextToken)
				assert.Len(t, process.Body, 4)
			},
		},
		{
			description: "stateful process",
			manifest: `name: counter
channels:
  - {name: in, id: 0, kind: single_value, width: 4}
  - {name: out, id: 1, kind: streaming, width: 4}
processes:
  - name: accumulator
    stateWidth: 4
    init: 0
    body: |
      v: receive(tok, channel=0)
      sum: add(state, v)
      snd: send(v, sum, channel=1)
      next(snd, sum)
`,
			verify: func(t *testing.T, network *model.Network) {
				process := network.Processes[0]
				assert.Equal(t, 4, process.StateWidth)
				assert.Equal(t, "sum", process.NextState)
			},
		},
		{
			description: "native process reference",
			manifest: `name: native
channels:
  - {name: in, id: 0, kind: streaming, width: 4}
processes:
  - name: custom
    ref: my_body
    stateType: CounterState
`,
			verify: func(t *testing.T, network *model.Network) {
				process := network.Processes[0]
				assert.Equal(t, "my_body", process.Ref)
				assert.Equal(t, "CounterState", process.StateType)
				assert.Empty(t, process.Body)
			},
		},
		{
			description: "invalid network is rejected",
			manifest: `name: broken
channels:
  - {name: in, id: 0, kind: streaming, width: 4}
  - {name: dup, id: 0, kind: streaming, width: 4}
`,
			expectErr: "duplicate id",
		},
		{
			description: "unsupported channel attribute",
			manifest: `name: bad
channels:
  - {name: in, id: 0, kind: streaming, width: 4, depth: 2}
`,
			expectErr: "unsupported attribute",
		},
		{
			description: "broken body",
			manifest: `name: bad
channels:
  - {name: in, id: 0, kind: streaming, width: 4}
processes:
  - name: p
    body: |
      v: receive(tok)
      next(v)
`,
			expectErr: "requires channel=<id>",
		},
	}

	service := New()
	for _, useCase := range useCases {
		network, err := service.DecodeYAML([]byte(useCase.manifest))
		if useCase.expectErr != "" {
			if assert.Error(t, err, useCase.description) {
				assert.Contains(t, err.Error(), useCase.expectErr, useCase.description)
			}
			continue
		}
		if !assert.NoError(t, err, useCase.description) {
			continue
		}
		useCase.verify(t, network)
	}
}

func TestService_Load(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()
	err := fs.Upload(ctx, "mem://localhost/networks/multiplier.yaml",
		file.DefaultFileOsMode, strings.NewReader(multiplierManifest))
	assert.NoError(t, err)

	service := New(WithBaseURL("mem://localhost/networks"), WithFS(fs))

	// The .yaml extension is appended and the base URL applied.
	network, err := service.Load(ctx, "multiplier")
	assert.NoError(t, err)
	assert.Equal(t, "multiplier", network.Name)
	assert.Len(t, network.Processes, 1)

	_, err = service.Load(ctx, "missing")
	assert.Error(t, err)
}

func TestService_Load_nameFromURL(t *testing.T) {
	unnamed := strings.Replace(multiplierManifest, "name: multiplier\n", "", 1)
	fs := afs.New()
	ctx := context.Background()
	err := fs.Upload(ctx, "mem://localhost/networks/tripler.yaml",
		file.DefaultFileOsMode, strings.NewReader(unnamed))
	assert.NoError(t, err)

	service := New(WithFS(fs))
	network, err := service.Load(ctx, "mem://localhost/networks/tripler")
	assert.NoError(t, err)
	assert.Equal(t, "tripler", network.Name)
}
