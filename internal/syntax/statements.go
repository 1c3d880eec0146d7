package syntax

import "github.com/robert-at-pretension-io/vhdl-nav/internal/ast"

// parseConcurrentStatements parses concurrent statements until "end",
// "elsif", "else" or "when" (the enclosing construct consumes those).
func (p *fileParser) parseConcurrentStatements() []ast.LabeledConcurrentStatement {
	var stmts []ast.LabeledConcurrentStatement
	for {
		tok := p.peek()
		if tok.Kind == tokEOF || p.atAny("end", "elsif", "else", "when") {
			return stmts
		}

		var label *ast.Ident
		if tok.Kind == tokWord && p.peekAt(1).Lower == ":" && !isConcurrentKeyword(tok.Lower) {
			p.take()
			p.take()
			label = &ast.Ident{Name: tok.Text, Pos: tok.Pos}
		}

		stmt, ok := p.parseConcurrentStatement()
		if !ok {
			p.skipPast(";")
			continue
		}
		stmts = append(stmts, ast.LabeledConcurrentStatement{Label: label, Statement: stmt})
	}
}

func isConcurrentKeyword(word string) bool {
	switch word {
	case "block", "process", "for", "if", "case", "entity", "component", "configuration", "assert", "postponed", "with":
		return true
	}
	return false
}

func (p *fileParser) parseConcurrentStatement() (ast.ConcurrentStatement, bool) {
	tok := p.peek()
	switch tok.Lower {
	case "block":
		return p.parseBlock(), true
	case "process", "postponed":
		p.accept("postponed")
		return p.parseProcess(), true
	case "for":
		return p.parseForGenerate(), true
	case "if":
		return p.parseIfGenerate(), true
	case "case":
		return p.parseCaseGenerate(), true
	case "entity", "component", "configuration":
		return p.parseInstantiation(), true
	case "assert", "with":
		return nil, false
	default:
		if tok.Kind != tokWord {
			return nil, false
		}
		return p.parseAssignmentOrInstantiation()
	}
}

func (p *fileParser) parseBlock() ast.ConcurrentStatement {
	p.take() // block
	if p.at("(") {
		p.skipBalanced() // guard condition
	}
	p.accept("is")
	block := &ast.BlockStatement{}
	block.Declarations = p.parseDeclarations()
	if p.accept("begin") {
		block.Statements = p.parseConcurrentStatements()
	}
	p.accept("end")
	p.accept("block")
	p.skipPast(";")
	return block
}

func (p *fileParser) parseProcess() ast.ConcurrentStatement {
	p.take() // process
	proc := &ast.ProcessStatement{}
	if p.accept("(") {
		for !p.at(")") && p.peek().Kind != tokEOF {
			if name, ok := p.parseSelectedName(); ok {
				proc.SensitivityList = append(proc.SensitivityList, name)
			} else {
				p.take()
			}
			p.accept(",")
		}
		p.accept(")")
	}
	p.accept("is")
	proc.Declarations = p.parseDeclarations()
	if p.accept("begin") {
		proc.Statements = p.parseSequentialStatements()
	}
	p.accept("end")
	p.accept("postponed")
	p.accept("process")
	p.skipPast(";")
	return proc
}

// parseGenerateBody parses the body of a generate branch: an optional
// declarative part (closed by "begin") followed by concurrent statements.
func (p *fileParser) parseGenerateBody() ast.GenerateBody {
	var body ast.GenerateBody
	if declarationKeywords[p.peek().Lower] || p.at("begin") {
		body.Declarations = p.parseDeclarations()
		p.accept("begin")
	}
	body.Statements = p.parseConcurrentStatements()
	return body
}

func (p *fileParser) parseForGenerate() ast.ConcurrentStatement {
	p.take() // for
	gen := &ast.ForGenerateStatement{}
	if ident, ok := p.takeIdent(); ok {
		gen.Index = ident
	}
	p.accept("in")
	p.skipPast("generate")
	gen.Body = p.parseGenerateBody()
	p.accept("end")
	p.accept("generate")
	p.skipPast(";")
	return gen
}

func (p *fileParser) parseIfGenerate() ast.ConcurrentStatement {
	p.take() // if
	gen := &ast.IfGenerateStatement{}
	for {
		// VHDL-2008 allows an alternative label before the condition.
		if p.peek().Kind == tokWord && p.peekAt(1).Lower == ":" {
			p.take()
			p.take()
		}
		cond := p.parseExpressionUntil("generate")
		p.accept("generate")
		body := p.parseGenerateBody()
		gen.Conditionals = append(gen.Conditionals, ast.ConditionalGenerateBody{Condition: cond, Body: body})
		if p.accept("elsif") {
			continue
		}
		break
	}
	if p.accept("else") {
		if p.peek().Kind == tokWord && p.peekAt(1).Lower == ":" {
			p.take()
			p.take()
		}
		p.accept("generate")
		body := p.parseGenerateBody()
		gen.Else = &body
	}
	p.accept("end")
	p.accept("generate")
	p.skipPast(";")
	return gen
}

func (p *fileParser) parseCaseGenerate() ast.ConcurrentStatement {
	p.take() // case
	gen := &ast.CaseGenerateStatement{}
	p.parseExpressionUntil("generate")
	p.accept("generate")
	for p.accept("when") {
		// skip the choice up to "=>"
		p.skipPast("=>")
		body := p.parseGenerateBody()
		gen.Alternatives = append(gen.Alternatives, ast.AlternativeGenerateBody{Body: body})
	}
	p.accept("end")
	p.accept("generate")
	p.skipPast(";")
	return gen
}

func (p *fileParser) parseInstantiation() ast.ConcurrentStatement {
	p.accept("entity")
	p.accept("component")
	p.accept("configuration")
	inst := &ast.ComponentInstantiationStatement{}
	if name, ok := p.parseSelectedName(); ok {
		inst.Unit = name
	}
	if p.at("(") {
		p.skipBalanced() // architecture selection
	}
	p.skipPast(";")
	return inst
}

// parseAssignmentOrInstantiation disambiguates "name <= expr" from
// "comp_name port map (...)" after an optional label was consumed.
func (p *fileParser) parseAssignmentOrInstantiation() (ast.ConcurrentStatement, bool) {
	name, ok := p.parseSelectedName()
	if !ok {
		return nil, false
	}
	if p.at("(") {
		// either an indexed assignment target or a concurrent procedure call
		args := p.parseCallArguments()
		if p.accept("<=") {
			stmt := &ast.ConcurrentSignalAssignment{Target: name, Rhs: p.parseExpression()}
			p.skipPast(";")
			return stmt, true
		}
		p.skipPast(";")
		return &ast.ConcurrentProcedureCall{Call: ast.CallExpression{Name: name, Args: args}}, true
	}
	if p.accept("<=") {
		stmt := &ast.ConcurrentSignalAssignment{Target: name, Rhs: p.parseExpression()}
		p.skipPast(";")
		return stmt, true
	}
	if p.atAny("generic", "port") {
		inst := &ast.ComponentInstantiationStatement{Unit: name}
		p.skipPast(";")
		return inst, true
	}
	p.skipPast(";")
	return &ast.ConcurrentProcedureCall{Call: ast.CallExpression{Name: name}}, true
}

// parseSequentialStatements parses sequential statements until "end",
// "elsif", "else" or "when".
func (p *fileParser) parseSequentialStatements() []ast.LabeledSequentialStatement {
	var stmts []ast.LabeledSequentialStatement
	for {
		tok := p.peek()
		if tok.Kind == tokEOF || p.atAny("end", "elsif", "else", "when") {
			return stmts
		}

		var label *ast.Ident
		if tok.Kind == tokWord && p.peekAt(1).Lower == ":" && !isSequentialKeyword(tok.Lower) {
			p.take()
			p.take()
			label = &ast.Ident{Name: tok.Text, Pos: tok.Pos}
		}

		stmt, ok := p.parseSequentialStatement()
		if !ok {
			p.skipPast(";")
			continue
		}
		if stmt != nil {
			stmts = append(stmts, ast.LabeledSequentialStatement{Label: label, Statement: stmt})
		}
	}
}

func isSequentialKeyword(word string) bool {
	switch word {
	case "if", "for", "while", "loop", "case", "return", "wait", "null", "next", "exit", "assert", "report":
		return true
	}
	return false
}

func (p *fileParser) parseSequentialStatement() (ast.SequentialStatement, bool) {
	tok := p.peek()
	switch tok.Lower {
	case "if":
		return p.parseIfStatement(), true
	case "return":
		p.take()
		stmt := &ast.ReturnStatement{}
		if !p.at(";") {
			stmt.Expression = p.parseExpression()
		}
		p.skipPast(";")
		return stmt, true
	case "wait":
		return p.parseWaitStatement(), true
	case "null":
		p.take()
		p.skipPast(";")
		return &ast.NullStatement{}, true
	case "for", "while", "loop":
		// loop statements are not modeled; skip the whole loop
		p.skipNested("loop")
		return nil, true
	case "case":
		p.skipNested("case")
		return nil, true
	case "next", "exit", "assert", "report":
		p.skipPast(";")
		return nil, true
	default:
		if tok.Kind != tokWord {
			return nil, false
		}
		return p.parseSequentialAssignmentOrCall()
	}
}

func (p *fileParser) parseIfStatement() ast.SequentialStatement {
	p.take() // if
	stmt := &ast.IfStatement{}
	for {
		cond := p.parseExpressionUntil("then")
		p.accept("then")
		body := p.parseSequentialStatements()
		stmt.Conditionals = append(stmt.Conditionals, ast.ConditionalStatements{Condition: cond, Statements: body})
		if p.accept("elsif") {
			continue
		}
		break
	}
	if p.accept("else") {
		stmt.Else = p.parseSequentialStatements()
	}
	p.accept("end")
	p.accept("if")
	p.skipPast(";")
	return stmt
}

func (p *fileParser) parseWaitStatement() ast.SequentialStatement {
	p.take() // wait
	stmt := &ast.WaitStatement{}
	if p.accept("on") {
		for {
			name, ok := p.parseSelectedName()
			if !ok {
				break
			}
			stmt.SensitivityList = append(stmt.SensitivityList, name)
			if !p.accept(",") {
				break
			}
		}
	}
	p.skipPast(";")
	return stmt
}

func (p *fileParser) parseSequentialAssignmentOrCall() (ast.SequentialStatement, bool) {
	name, ok := p.parseSelectedName()
	if !ok {
		return nil, false
	}
	if p.at("(") {
		args := p.parseCallArguments()
		switch {
		case p.accept("<="):
			stmt := &ast.SignalAssignmentStatement{Target: name, Rhs: p.parseExpression()}
			p.skipPast(";")
			return stmt, true
		case p.accept(":="):
			stmt := &ast.VariableAssignmentStatement{Target: name, Rhs: p.parseExpression()}
			p.skipPast(";")
			return stmt, true
		default:
			p.skipPast(";")
			return &ast.ProcedureCallStatement{Call: ast.CallExpression{Name: name, Args: args}}, true
		}
	}
	switch {
	case p.accept("<="):
		stmt := &ast.SignalAssignmentStatement{Target: name, Rhs: p.parseExpression()}
		p.skipPast(";")
		return stmt, true
	case p.accept(":="):
		stmt := &ast.VariableAssignmentStatement{Target: name, Rhs: p.parseExpression()}
		p.skipPast(";")
		return stmt, true
	default:
		p.skipPast(";")
		return &ast.ProcedureCallStatement{Call: ast.CallExpression{Name: name}}, true
	}
}

// skipNested advances past a construct closed by "end <keyword>", tracking
// nesting of the same keyword.
func (p *fileParser) skipNested(keyword string) {
	depth := 0
	sawOpener := false
	for {
		tok := p.peek()
		if tok.Kind == tokEOF {
			return
		}
		if tok.Lower == keyword && !sawOpener {
			// tokens before the opener ("for i in ... loop") belong to the
			// header
			sawOpener = true
			depth = 1
			p.take()
			continue
		}
		if tok.Lower == keyword && sawOpener {
			depth++
			p.take()
			continue
		}
		if tok.Lower == "end" && sawOpener {
			p.take()
			if p.at(keyword) {
				p.take()
				depth--
				if depth == 0 {
					p.skipPast(";")
					return
				}
			}
			continue
		}
		p.take()
	}
}
