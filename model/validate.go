package model

import "fmt"

// maxWordWidth caps interpreted payload and state widths at one machine word.
const maxWordWidth = 8

// Validate checks the whole network declaration and returns every issue
// found. A network with no issues is safe to hand to a queue manager and
// compiler: channel ids are unique and well formed, every process body
// resolves its operands and threads a single token chain.
func (n *Network) Validate() []error {
	var issues []error
	seenIDs := make(map[ChannelID]bool, len(n.Channels))
	for _, channel := range n.Channels {
		if seenIDs[channel.ID] {
			issues = append(issues, fmt.Errorf("channel %v: duplicate id", channel.ID))
			continue
		}
		seenIDs[channel.ID] = true
		issues = append(issues, channel.Validate()...)
	}
	index := n.channelIndex()
	seenNames := make(map[string]bool, len(n.Processes))
	for _, process := range n.Processes {
		if process.Name == "" {
			issues = append(issues, fmt.Errorf("process name is required"))
			continue
		}
		if seenNames[process.Name] {
			issues = append(issues, fmt.Errorf("process %v: duplicate name", process.Name))
			continue
		}
		seenNames[process.Name] = true
		issues = append(issues, process.Validate(index)...)
	}
	return issues
}

// Validate checks one process declaration against the supplied channel index.
func (p *Process) Validate(channels map[ChannelID]*Channel) []error {
	if p.Ref != "" {
		if len(p.Body) > 0 {
			return []error{fmt.Errorf("process %v: ref and body are mutually exclusive", p.Name)}
		}
		return nil
	}
	var issues []error
	fail := func(format string, args ...interface{}) {
		issues = append(issues, fmt.Errorf("process %v: %v", p.Name, fmt.Sprintf(format, args...)))
	}
	if len(p.Body) == 0 {
		fail("body is required")
		return issues
	}
	if p.InitToken == "" {
		fail("initial token name is required")
	}
	if p.StateWidth < 0 || p.StateWidth > maxWordWidth {
		fail("state width must be within [0..%v], had %v", maxWordWidth, p.StateWidth)
	}

	// Resolvable value operands and their widths, in program order.
	widthOf := map[string]int{StateRef: p.StateWidth}
	resolve := func(node *Node, role, ref string) (int, bool) {
		if ref == "" {
			fail("node %v: %v operand is required", node.Name, role)
			return 0, false
		}
		width, ok := widthOf[ref]
		if !ok {
			fail("node %v: unresolved %v operand %q", node.Name, role, ref)
		}
		return width, ok
	}

	token := p.InitToken
	for _, node := range p.Body {
		if node.Name == "" || node.Name == StateRef || node.Name == p.InitToken {
			fail("node name %q is reserved or empty", node.Name)
			continue
		}
		if _, ok := widthOf[node.Name]; ok {
			fail("node %v: duplicate name", node.Name)
			continue
		}
		switch node.Op {
		case OpLiteral:
			if node.Width <= 0 || node.Width > maxWordWidth {
				fail("node %v: literal width must be within [1..%v], had %v", node.Name, maxWordWidth, node.Width)
				continue
			}
			widthOf[node.Name] = node.Width
		case OpUMul, OpAdd, OpSub:
			if len(node.Operands) != 2 {
				fail("node %v: %v takes 2 operands, had %v", node.Name, node.Op, len(node.Operands))
				continue
			}
			lhs, lok := resolve(node, "lhs", node.Operands[0])
			rhs, rok := resolve(node, "rhs", node.Operands[1])
			if !lok || !rok {
				continue
			}
			if lhs != rhs {
				fail("node %v: operand widths disagree: %v vs %v", node.Name, lhs, rhs)
				continue
			}
			widthOf[node.Name] = lhs
		case OpReceive, OpSend:
			channel, ok := channels[node.Channel]
			if !ok {
				fail("node %v: unknown channel %v", node.Name, node.Channel)
				continue
			}
			if channel.Width > maxWordWidth {
				fail("node %v: channel %v width %v exceeds word width", node.Name, node.Channel, channel.Width)
				continue
			}
			if node.Predicate != "" {
				resolve(node, "predicate", node.Predicate)
			}
			if node.Token != token {
				fail("node %v: consumes token %q, expected %q", node.Name, node.Token, token)
			}
			token = node.Name
			if node.Op == OpSend {
				if len(node.Operands) != 1 {
					fail("node %v: send takes 1 operand, had %v", node.Name, len(node.Operands))
					continue
				}
				width, ok := resolve(node, "payload", node.Operands[0])
				if ok && width != channel.Width {
					fail("node %v: payload width %v disagrees with channel %v width %v",
						node.Name, width, node.Channel, channel.Width)
				}
			} else {
				widthOf[node.Name] = channel.Width
			}
		default:
			fail("node %v: unknown op %q", node.Name, node.Op)
		}
	}

	// The declared next token must be the one produced by the last channel op
	// (or the initial token when the body has no channel ops).
	if p.NextToken != token {
		fail("next token %q does not close the token chain, expected %q", p.NextToken, token)
	}
	if p.StateWidth == 0 {
		if p.NextState != "" && p.NextState != StateRef {
			fail("next state %q is not allowed on a stateless process", p.NextState)
		}
	} else {
		width, ok := widthOf[p.NextState]
		if !ok {
			fail("unresolved next state operand %q", p.NextState)
		} else if width != p.StateWidth {
			fail("next state width %v disagrees with state width %v", width, p.StateWidth)
		}
	}
	return issues
}
