package sfcparse

import "github.com/sfcgo/sfcparse/internal/scriptparser"

// ESNode is the ESTree-compatible expression/statement node type shared
// by directive expressions and <script>/<script setup> program bodies
// (spec §3's "ESTreeExpression").
type ESNode = scriptparser.Node

// VExpressionContainer wraps a parsed directive value or mustache body
// (spec §3). Exactly one of Expression/SyntaxError is non-nil once
// parsing completes.
type VExpressionContainer struct {
	base
	Expression any          `json:"expression"` // *ESNode | *VForExpression | *VSlotScopeExpression | nil
	References []*Reference `json:"references"`
	SyntaxError *ParseError `json:"syntaxError,omitempty"`
}

// VForExpression is synthesized from a parsed `for (… in …)`/`for (… of
// …)` statement (spec §3).
type VForExpression struct {
	Left  []*ESNode `json:"left"`
	Right *ESNode   `json:"right"`
}

// VSlotScopeExpression holds the destructuring pattern of a
// `slot-scope`/`scope`/`v-slot` value.
type VSlotScopeExpression struct {
	Params []*ESNode `json:"params"`
}

// ReferenceMode is the closed set of a Reference's read/write intent
// (spec §3).
type ReferenceMode string

const (
	ModeRead      ReferenceMode = "r"
	ModeWrite     ReferenceMode = "w"
	ModeReadWrite ReferenceMode = "rw"
)

// Reference binds an Identifier node inside an expression to an
// ancestor's ElementVariable, once resolved (spec §3, §4.8).
type Reference struct {
	Id       *ESNode         `json:"id"`
	Mode     ReferenceMode   `json:"mode"`
	Variable *ElementVariable `json:"variable"`
}
