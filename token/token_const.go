package token

const (
	Undetermined Token = iota

	Illegal
	Eof

	String
	Number
	RegExp
	JSXText

	NoSubstitutionTemplate // `...`
	TemplateHead           // `...${
	TemplateMiddle         // }...${
	TemplateTail           // }...`

	Plus      // +
	Minus     // -
	Multiply  // *
	Exponent  // **
	Slash     // /
	Remainder // %

	And                // &
	Or                 // |
	ExclusiveOr        // ^
	ShiftLeft          // <<
	ShiftRight         // >>
	UnsignedShiftRight // >>>

	LogicalAnd // &&
	LogicalOr  // ||
	Coalesce   // ??
	Increment  // ++
	Decrement  // --

	Assign          // =
	AddAssign       // +=
	SubtractAssign  // -=
	MultiplyAssign  // *=
	ExponentAssign  // **=
	QuotientAssign  // /=
	RemainderAssign // %=

	AndAssign                // &=
	OrAssign                 // |=
	ExclusiveOrAssign        // ^=
	ShiftLeftAssign          // <<=
	ShiftRightAssign         // >>=
	UnsignedShiftRightAssign // >>>=

	LogicalAndAssign // &&=
	LogicalOrAssign  // ||=
	CoalesceAssign   // ??=

	Equal          // ==
	StrictEqual    // ===
	NotEqual       // !=
	StrictNotEqual // !==
	Less           // <
	Greater        // >
	LessOrEqual    // <=
	GreaterOrEqual // >=
	Not            // !
	BitwiseNot     // ~

	LeftParenthesis // (
	LeftBracket     // [
	LeftBrace       // {
	Comma           // ,
	Period          // .

	RightParenthesis // )
	RightBracket     // ]
	RightBrace       // }
	Semicolon        // ;
	Colon            // :
	QuestionMark     // ?
	QuestionDot      // ?.
	Arrow            // =>
	Ellipsis         // ...
	At               // @

	PrivateIdentifier

	Identifier

	Boolean
	Null

	If
	In
	Do

	Var
	For
	New
	Try

	This
	Else
	Case
	Void
	With
	Enum

	Const
	While
	Break
	Catch
	Throw
	Class
	Super

	Return
	Typeof
	Delete
	Switch
	Import
	Export

	Default
	Finally
	Extends

	Function
	Continue
	Debugger

	InstanceOf

	EscapedReservedWord

	Let
	Static
	Async
	Await
	Yield
	Of
)

var token2string = [...]string{
	Illegal:                  "Illegal",
	Eof:                      "Eof",
	String:                   "String",
	Number:                   "Number",
	RegExp:                   "RegExp",
	JSXText:                  "JSXText",
	NoSubstitutionTemplate:   "Template",
	TemplateHead:             "TemplateHead",
	TemplateMiddle:           "TemplateMiddle",
	TemplateTail:             "TemplateTail",
	Boolean:                  "Boolean",
	Null:                     "null",
	Identifier:               "Identifier",
	PrivateIdentifier:        "PrivateIdentifier",
	EscapedReservedWord:      "EscapedReservedWord",
	Plus:                     "+",
	Minus:                    "-",
	Exponent:                 "**",
	Multiply:                 "*",
	Slash:                    "/",
	Remainder:                "%",
	And:                      "&",
	Or:                       "|",
	ExclusiveOr:              "^",
	ShiftLeft:                "<<",
	ShiftRight:               ">>",
	UnsignedShiftRight:       ">>>",
	Assign:                   "=",
	AddAssign:                "+=",
	SubtractAssign:           "-=",
	MultiplyAssign:           "*=",
	ExponentAssign:           "**=",
	QuotientAssign:           "/=",
	RemainderAssign:          "%=",
	AndAssign:                "&=",
	OrAssign:                 "|=",
	ExclusiveOrAssign:        "^=",
	ShiftLeftAssign:          "<<=",
	ShiftRightAssign:         ">>=",
	UnsignedShiftRightAssign: ">>>=",
	LogicalAnd:               "&&",
	LogicalOr:                "||",
	Coalesce:                 "??",
	LogicalAndAssign:         "&&=",
	LogicalOrAssign:          "||=",
	CoalesceAssign:           "??=",
	Increment:                "++",
	Decrement:                "--",
	Equal:                    "==",
	StrictEqual:              "===",
	NotEqual:                 "!=",
	StrictNotEqual:           "!==",
	Less:                     "<",
	Greater:                  ">",
	LessOrEqual:              "<=",
	GreaterOrEqual:           ">=",
	Not:                      "!",
	BitwiseNot:               "~",
	LeftParenthesis:          "(",
	LeftBracket:              "[",
	LeftBrace:                "{",
	Comma:                    ",",
	Period:                   ".",
	RightParenthesis:         ")",
	RightBracket:             "]",
	RightBrace:               "}",
	Semicolon:                ";",
	Colon:                    ":",
	QuestionMark:             "?",
	QuestionDot:              "?.",
	Arrow:                    "=>",
	Ellipsis:                 "...",
	At:                       "@",
	If:                       "if",
	In:                       "in",
	Of:                       "of",
	Do:                       "do",
	Var:                      "var",
	Let:                      "let",
	For:                      "for",
	New:                      "new",
	Try:                      "try",
	This:                     "this",
	Else:                     "else",
	Case:                     "case",
	Void:                     "void",
	With:                     "with",
	Enum:                     "enum",
	Async:                    "async",
	Await:                    "await",
	Yield:                    "yield",
	Const:                    "const",
	While:                    "while",
	Break:                    "break",
	Catch:                    "catch",
	Throw:                    "throw",
	Class:                    "class",
	Super:                    "super",
	Return:                   "return",
	Typeof:                   "typeof",
	Delete:                   "delete",
	Switch:                   "switch",
	Import:                   "import",
	Export:                   "export",
	Static:                   "static",
	Default:                  "default",
	Finally:                  "finally",
	Extends:                  "extends",
	Function:                 "function",
	Continue:                 "continue",
	Debugger:                 "debugger",
	InstanceOf:               "instanceof",
}

var keywordTable = map[string]keyword{
	"if":         {token: If},
	"in":         {token: In},
	"do":         {token: Do},
	"var":        {token: Var},
	"for":        {token: For},
	"new":        {token: New},
	"try":        {token: Try},
	"this":       {token: This},
	"else":       {token: Else},
	"case":       {token: Case},
	"void":       {token: Void},
	"with":       {token: With},
	"enum":       {token: Enum},
	"while":      {token: While},
	"break":      {token: Break},
	"catch":      {token: Catch},
	"throw":      {token: Throw},
	"return":     {token: Return},
	"typeof":     {token: Typeof},
	"delete":     {token: Delete},
	"switch":     {token: Switch},
	"import":     {token: Import},
	"export":     {token: Export},
	"default":    {token: Default},
	"finally":    {token: Finally},
	"function":   {token: Function},
	"continue":   {token: Continue},
	"debugger":   {token: Debugger},
	"instanceof": {token: InstanceOf},
	"const":      {token: Const},
	"class":      {token: Class},
	"extends":    {token: Extends},
	"super":      {token: Super},
	"false":      {token: Boolean},
	"true":       {token: Boolean},
	"null":       {token: Null},

	"let":    {token: Let, strict: true},
	"static": {token: Static, strict: true},
	"async":  {token: Async},
	"await":  {token: Await},
	"yield":  {token: Yield, strict: true},
	"of":     {token: Of},

	"implements": {token: Identifier, strict: true},
	"interface":  {token: Identifier, strict: true},
	"package":    {token: Identifier, strict: true},
	"private":    {token: Identifier, strict: true},
	"protected":  {token: Identifier, strict: true},
	"public":     {token: Identifier, strict: true},
}
