// Package css parses page stylesheets and checks them against rendered
// output.
package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses stylesheet. Source only identifies stylesheet in the log.
// Parsing never fails, problems are collected in Warnings.
func (p *Parser) Parse(data []byte, source string) *Stylesheet {
	sheet := &Stylesheet{}
	p.log.Debug("Parsing CSS", zap.String("source", source), zap.Int("bytes", len(data)))

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				sheet.Warnings = append(sheet.Warnings, err.Error())
				p.log.Debug("CSS parse error", zap.String("source", source), zap.Error(err))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			if rule := string(data); rule == "@media" {
				query := joinTokens(parser.Values())
				rules := p.parseBlockRules(parser, sheet, query)
				p.log.Debug("Parsed @media block", zap.String("query", query), zap.Int("rules", len(rules)))
				sheet.Rules = append(sheet.Rules, rules...)
			} else {
				skipAtRuleBlock(parser)
				p.log.Debug("Skipping @-rule", zap.String("rule", rule))
			}

		case css.AtRuleGrammar:
			if string(data) == "@import" {
				if url := extractImportURL(parser.Values()); url != "" {
					sheet.Imports = append(sheet.Imports, url)
				}
			}

		case css.BeginRulesetGrammar:
			sheet.Rules = append(sheet.Rules, p.parseRuleset(parser, data, ""))

		case css.QualifiedRuleGrammar:
			// selector without declaration block
			sheet.Warnings = append(sheet.Warnings, "rule without declarations: "+joinSelector(data, parser.Values()))
		}
	}
}

func (p *Parser) parseRuleset(parser *css.Parser, data []byte, media string) Rule {
	return Rule{
		Selectors:  splitSelectors(joinSelector(data, parser.Values())),
		Properties: parseDeclarations(parser),
		Media:      media,
	}
}

// parseBlockRules parses rulesets inside of @media block.
func (p *Parser) parseBlockRules(parser *css.Parser, sheet *Stylesheet, media string) []Rule {
	var rules []Rule
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules
		case css.BeginRulesetGrammar:
			rules = append(rules, p.parseRuleset(parser, data, media))
		case css.BeginAtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "nested @-rule ignored: "+string(data))
			skipAtRuleBlock(parser)
		}
	}
}

func joinSelector(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return sb.String()
}

func splitSelectors(s string) []string {
	var out []string
	for sel := range strings.SplitSeq(s, ",") {
		if sel = strings.Join(strings.Fields(sel), " "); sel != "" {
			out = append(out, sel)
		}
	}
	return out
}

// parseDeclarations reads declarations until end of ruleset. Custom
// properties are kept with their names.
func parseDeclarations(parser *css.Parser) map[string]string {
	props := make(map[string]string)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if values := parser.Values(); len(values) > 0 {
				props[string(data)] = joinTokens(values)
			}
		}
	}
}

// joinTokens builds raw value collapsing whitespace runs.
func joinTokens(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

func skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// extractImportURL handles @import "url", @import url("url") and
// @import url(url).
func extractImportURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
