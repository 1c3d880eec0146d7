package syntax

import "github.com/robert-at-pretension-io/vhdl-nav/internal/ast"

var binaryOperators = map[string]bool{
	"and": true, "or": true, "xor": true, "nand": true, "nor": true,
	"xnor": true, "mod": true, "rem": true, "sll": true, "srl": true,
	"sla": true, "sra": true, "rol": true, "ror": true,
	"+": true, "-": true, "&": true, "*": true, "/": true, "=": true,
	"/=": true, "<": true, "<=": true, ">": true, ">=": true, "**": true,
}

// parseExpression parses a flat left-associative binary expression. Operator
// precedence is irrelevant to navigation; only the names inside matter.
func (p *fileParser) parseExpression() ast.Expression {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}
	for {
		tok := p.peek()
		if !binaryOperators[tok.Lower] {
			return left
		}
		p.take()
		right := p.parsePrimary()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpression{Left: left, Op: tok.Lower, Right: right}
	}
}

// parseExpressionUntil parses an expression that ends at the given keyword
// ("then", "generate"). The keyword itself is left for the caller.
func (p *fileParser) parseExpressionUntil(stop string) ast.Expression {
	expr := p.parseExpression()
	// tolerate unmodeled trailing syntax before the stop keyword
	for !p.at(stop) && !p.at(";") && p.peek().Kind != tokEOF {
		p.take()
	}
	return expr
}

func (p *fileParser) parsePrimary() ast.Expression {
	tok := p.peek()
	switch {
	case tok.Kind == tokNumber || tok.Kind == tokString || tok.Kind == tokCharacter:
		p.take()
		return &ast.LiteralExpression{Pos: tok.Pos, Text: tok.Text}
	case tok.Lower == "(":
		return p.parseParen()
	case tok.Lower == "not" || tok.Lower == "abs":
		p.take()
		return &ast.UnaryExpression{Op: tok.Lower, Operand: p.parsePrimary()}
	case tok.Lower == "-" || tok.Lower == "+":
		p.take()
		return &ast.UnaryExpression{Op: tok.Lower, Operand: p.parsePrimary()}
	case tok.Kind == tokWord:
		return p.parseNamePrimary()
	default:
		return nil
	}
}

func (p *fileParser) parseParen() ast.Expression {
	p.take() // (
	inner := p.parseExpression()
	// skip aggregate remainders ("others => ...", element associations)
	depth := 1
	for depth > 0 {
		tok := p.peek()
		if tok.Kind == tokEOF {
			break
		}
		if tok.Lower == "(" {
			depth++
		} else if tok.Lower == ")" {
			depth--
		}
		p.take()
	}
	return &ast.ParenExpression{Inner: inner}
}

func (p *fileParser) parseNamePrimary() ast.Expression {
	name, ok := p.parseSelectedName()
	if !ok {
		return nil
	}
	// attribute names: clk'event, t'high
	for p.at("'") && p.peekAt(1).Kind == tokWord {
		p.take()
		p.take()
	}
	if p.at("(") {
		return &ast.CallExpression{Name: name, Args: p.parseCallArguments()}
	}
	return &ast.NameExpression{Name: name}
}

// parseCallArguments parses "( arg , arg , ... )" where an argument may be a
// named association "formal => actual"; only the actual is kept.
func (p *fileParser) parseCallArguments() []ast.Expression {
	var args []ast.Expression
	if !p.accept("(") {
		return args
	}
	for {
		if p.accept(")") || p.peek().Kind == tokEOF {
			return args
		}
		expr := p.parseExpression()
		if p.accept("=>") {
			expr = p.parseExpression()
		}
		if expr != nil {
			args = append(args, expr)
		} else {
			p.take()
		}
		p.accept(",")
	}
}
