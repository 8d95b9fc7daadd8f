package body

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/procnet/model"
)

// Definition is the parsed form of a process body text.
type Definition struct {
	Nodes     []*model.Node
	InitToken string
	NextToken string
	NextState string
}

// Parse parses a process body. Each line declares one op in the format
//
//	name: op(positional..., key=value...)
//
// terminated by a next(tokenRef[, stateRef]) line, for example:
//
//	k: literal(3, width=4)
//	v: receive(tok, channel=0)
//	p: umul(k, v)
//	snd: send(v, p, channel=1)
//	next(snd, state)
//
// The initial token is the single token reference no op produces
// ("tok" above).
func Parse(input []byte) (*Definition, error) {
	definition := &Definition{}
	sawNext := false
	for i, line := range strings.Split(string(input), "\n") {
		if idx := strings.Index(line, "//"); idx != -1 {
			line = line[:idx]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if sawNext {
			return nil, fmt.Errorf("line %v: ops after next are not allowed", i+1)
		}
		if err := parseLine([]byte(line), definition, &sawNext); err != nil {
			return nil, fmt.Errorf("line %v: %w", i+1, err)
		}
	}
	if !sawNext {
		return nil, fmt.Errorf("missing next(...) terminator")
	}
	if err := inferInitToken(definition); err != nil {
		return nil, err
	}
	return definition, nil
}

func parseLine(line []byte, definition *Definition, sawNext *bool) error {
	cursor := parsly.NewCursor("", line, 0)
	matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		return cursor.NewError(identifierToken)
	}
	name := matched.Text(cursor)
	if name == "next" {
		*sawNext = true
		return parseNext(cursor, definition)
	}

	matched = cursor.MatchAfterOptional(whitespaceToken, colonToken)
	if matched.Code != colonToken.Code {
		return cursor.NewError(colonToken)
	}
	matched = cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		return cursor.NewError(identifierToken)
	}
	op := matched.Text(cursor)
	args, err := parseArgs(cursor)
	if err != nil {
		return err
	}
	node, err := buildNode(name, op, args)
	if err != nil {
		return err
	}
	definition.Nodes = append(definition.Nodes, node)
	return nil
}

// parseNext handles the next(tokenRef[, stateRef]) terminator.
func parseNext(cursor *parsly.Cursor, definition *Definition) error {
	args, err := parseArgs(cursor)
	if err != nil {
		return err
	}
	idents := positionalIdents(args)
	if len(idents) != len(args) || len(idents) == 0 || len(idents) > 2 {
		return fmt.Errorf("next takes (tokenRef[, stateRef])")
	}
	definition.NextToken = idents[0]
	if len(idents) == 2 {
		definition.NextState = idents[1]
	}
	return nil
}

// arg is one parsed argument: a positional reference, a positional number or
// a key=value attribute.
type arg struct {
	key    string
	ident  string
	number uint64
	isNum  bool
}

func parseArgs(cursor *parsly.Cursor) ([]arg, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, openParenToken)
	if matched.Code != openParenToken.Code {
		return nil, cursor.NewError(openParenToken)
	}
	var args []arg
	for {
		matched = cursor.MatchAfterOptional(whitespaceToken, closeParenToken, numberToken, identifierToken)
		switch matched.Code {
		case closeParenToken.Code:
			return args, nil
		case numberToken.Code:
			value, err := strconv.ParseUint(matched.Text(cursor), 0, 64)
			if err != nil {
				return nil, err
			}
			args = append(args, arg{number: value, isNum: true})
		case identifierToken.Code:
			text := matched.Text(cursor)
			next := cursor.MatchAfterOptional(whitespaceToken, equalsToken)
			if next.Code != equalsToken.Code {
				args = append(args, arg{ident: text})
				break
			}
			value := cursor.MatchAfterOptional(whitespaceToken, numberToken, identifierToken)
			switch value.Code {
			case numberToken.Code:
				number, err := strconv.ParseUint(value.Text(cursor), 0, 64)
				if err != nil {
					return nil, err
				}
				args = append(args, arg{key: text, number: number, isNum: true})
			case identifierToken.Code:
				args = append(args, arg{key: text, ident: value.Text(cursor)})
			default:
				return nil, cursor.NewError(numberToken, identifierToken)
			}
		default:
			return nil, cursor.NewError(closeParenToken, numberToken, identifierToken)
		}
		matched = cursor.MatchAfterOptional(whitespaceToken, commaToken, closeParenToken)
		switch matched.Code {
		case commaToken.Code:
		case closeParenToken.Code:
			return args, nil
		default:
			return nil, cursor.NewError(commaToken, closeParenToken)
		}
	}
}

func positionalIdents(args []arg) []string {
	var idents []string
	for _, candidate := range args {
		if candidate.key == "" && !candidate.isNum {
			idents = append(idents, candidate.ident)
		}
	}
	return idents
}

func attribute(args []arg, key string) (arg, bool) {
	for _, candidate := range args {
		if candidate.key == key {
			return candidate, true
		}
	}
	return arg{}, false
}

// buildNode maps a parsed op line onto a model node.
func buildNode(name, op string, args []arg) (*model.Node, error) {
	node := &model.Node{Name: name, Op: model.OpCode(op)}
	idents := positionalIdents(args)
	switch node.Op {
	case model.OpLiteral:
		var value *uint64
		for _, candidate := range args {
			if candidate.key == "" && candidate.isNum {
				v := candidate.number
				value = &v
				break
			}
		}
		if value == nil {
			return nil, fmt.Errorf("node %v: literal requires a value", name)
		}
		node.Value = *value
		if width, ok := attribute(args, "width"); ok && width.isNum {
			node.Width = int(width.number)
		}
	case model.OpReceive, model.OpSend:
		expected := 1
		if node.Op == model.OpSend {
			expected = 2
		}
		if len(idents) != expected {
			return nil, fmt.Errorf("node %v: %v takes %v positional operands, had %v", name, op, expected, len(idents))
		}
		node.Token = idents[0]
		if node.Op == model.OpSend {
			node.Operands = []string{idents[1]}
		}
		channel, ok := attribute(args, "channel")
		if !ok || !channel.isNum {
			return nil, fmt.Errorf("node %v: %v requires channel=<id>", name, op)
		}
		node.Channel = model.ChannelID(channel.number)
		if predicate, ok := attribute(args, "predicate"); ok {
			node.Predicate = predicate.ident
		}
	case model.OpUMul, model.OpAdd, model.OpSub:
		if len(idents) != 2 {
			return nil, fmt.Errorf("node %v: %v takes 2 operands, had %v", name, op, len(idents))
		}
		node.Operands = idents
	default:
		return nil, fmt.Errorf("node %v: unknown op %q", name, op)
	}
	return node, nil
}

// inferInitToken finds the single token reference not produced by any op.
func inferInitToken(definition *Definition) error {
	produced := make(map[string]bool, len(definition.Nodes))
	for _, node := range definition.Nodes {
		if node.IsChannelOp() {
			produced[node.Name] = true
		}
	}
	initial := ""
	consume := func(ref string) error {
		if ref == "" || produced[ref] {
			return nil
		}
		if initial != "" && initial != ref {
			return fmt.Errorf("ambiguous initial token: %q vs %q", initial, ref)
		}
		initial = ref
		return nil
	}
	for _, node := range definition.Nodes {
		if !node.IsChannelOp() {
			continue
		}
		if err := consume(node.Token); err != nil {
			return err
		}
	}
	if err := consume(definition.NextToken); err != nil {
		return err
	}
	if initial == "" {
		return fmt.Errorf("initial token not found")
	}
	definition.InitToken = initial
	return nil
}
