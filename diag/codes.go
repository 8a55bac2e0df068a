package diag

// Lexical errors.
const (
	InvalidCharacter         Code = "L1001"
	UnterminatedString       Code = "L1002"
	UnterminatedTemplate     Code = "L1003"
	UnterminatedComment      Code = "L1004"
	UnterminatedRegExp       Code = "L1005"
	InvalidEscape            Code = "L1006"
	InvalidUnicodeEscape     Code = "L1007"
	InvalidNumber            Code = "L1008"
	InvalidRegExpFlag        Code = "L1009"
	DuplicateRegExpFlag      Code = "L1010"
	InvalidIdentifierEscape  Code = "L1011"
	UnterminatedJSXString    Code = "L1012"
	NumericSeparatorMisplace Code = "L1013"
)

// Syntax errors.
const (
	UnexpectedToken        Code = "S1001"
	UnexpectedEnd          Code = "S1002"
	ExpectedToken          Code = "S1003"
	MissingSemicolon       Code = "S1004"
	IllegalReturn          Code = "S1005"
	IllegalBreak           Code = "S1006"
	IllegalContinue        Code = "S1007"
	UndefinedLabel         Code = "S1008"
	DuplicateLabel         Code = "S1009"
	MissingInitializer     Code = "S1010"
	RestNotLast            Code = "S1011"
	InvalidAccessorArity   Code = "S1012"
	InvalidConstructor     Code = "S1013"
	MixedCoalesce          Code = "S1014"
	UnaryBeforeExponent    Code = "S1015"
	InvalidAwait           Code = "S1016"
	InvalidYield           Code = "S1017"
	StrictWith             Code = "S1018"
	ModuleSyntaxInScript   Code = "S1019"
	JSXTagMismatch         Code = "S1020"
	MissingCatchOrFinally  Code = "S1021"
	InvalidNewTarget       Code = "S1022"
	MultipleDefaults       Code = "S1023"
	InvalidDestructuring   Code = "S1024"
	LineTerminatorNotAllow Code = "S1025"
	InvalidOptionalChain   Code = "S1026"
	DuplicateConstructor   Code = "S1027"
	ReservedWord           Code = "S1028"
	InvalidForInOfInit     Code = "S1029"
)

// Semantic errors and warnings.
const (
	InvalidAssignmentTarget Code = "E2000"
	Redeclaration           Code = "E2001"
	UsedBeforeDeclaration   Code = "W2002"
	AssignToConstant        Code = "E2003"
	AssignToImport          Code = "E2004"
)

// Internal errors. They never appear in a diagnostic list; the code tags
// the fatal error that ends a unit.
const (
	InvariantViolation Code = "I9001"
)
