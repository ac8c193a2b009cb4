package mparse

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// readDocument reads the top-level production: either a section document
// (§1 "section document") or a bare expression. A section document is
// recognized by its leading, possibly `shared`-qualified, `section`
// keyword.
func readDocument(p *ParserState) (marena.NodeId, error) {
	if p.IsOnTokenKind(mlex.KeywordSection) ||
		(p.IsOnTokenKind(mlex.KeywordShared) && p.PeekTokenKind(1) == mlex.KeywordSection) {
		return readSection(p)
	}
	return readExpression(p)
}

// readSection reads `section` [ generalized-identifier ] `;` member*
// (§9 Section / SectionMember).
func readSection(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.Section)
	start := p.TokenIndex
	p.Expect(mlex.KeywordSection)
	if p.IsOnGeneralizedIdentifierStart() {
		if _, err := readGeneralizedIdentifier(p); err != nil {
			return 0, err
		}
	}
	if _, err := p.Expect(mlex.Semicolon); err != nil {
		return 0, err
	}
	for !p.IsOnTokenKind(mlex.End) {
		if _, err := readSectionMember(p); err != nil {
			return 0, err
		}
	}
	return p.EndContext(start).Id, nil
}

// readSectionMember reads [ `shared` ] identifier-paired-expression `;`.
func readSectionMember(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.SectionMember)
	start := p.TokenIndex
	if p.IsOnTokenKind(mlex.KeywordShared) {
		p.PushLeaf(marena.Constant)
	}
	if _, err := readIdentifierPairedExpression(p); err != nil {
		return 0, err
	}
	if _, err := p.Expect(mlex.Semicolon); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}
