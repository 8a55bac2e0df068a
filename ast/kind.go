package ast

// Kind tags a Node. Slot layouts are listed next to each kind; slots that are
// not mentioned are always NoNode.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindProgram // List: statements. Flags: Module, Strict.
	KindError   // Placeholder for input that could not be parsed.

	KindIdentifierReference // Text: name.
	KindBindingIdentifier   // Text: name. A: TSTypeAnnotation. Flags: Optional.
	KindIdentifierName      // Text: name. Property keys and member names.
	KindLabelIdentifier     // Text: name.
	KindPrivateIdentifier   // Text: name without '#'.

	KindNullLiteral
	KindBooleanLiteral  // Variant: 1 for true.
	KindNumericLiteral  // Num: value. Variant: NumberBase.
	KindBigIntLiteral   // Text: digits without separators or suffix. Variant: NumberBase.
	KindStringLiteral   // Text: cooked value.
	KindRegExpLiteral   // Text: pattern. Variant: flag bits.
	KindTemplateLiteral // List: TemplateElement and expressions, alternating.
	KindTemplateElement // Text: cooked value. Flags: Tail, InvalidCooked.

	KindThisExpression
	KindSuper
	KindArrayExpression          // List: elements, Elision, SpreadElement.
	KindElision                  // Hole in an array literal or pattern.
	KindObjectExpression         // List: Property, SpreadElement.
	KindProperty                 // A: key (NoNode when Shorthand). B: value. Variant: PropKind. Flags: Method, Shorthand, Computed.
	KindSpreadElement            // A: argument.
	KindFunctionExpression       // Same layout as FunctionDeclaration.
	KindArrowFunctionExpression  // A: type params. B: FormalParameters. C: return type. D: FunctionBody or expression. Flags: Async, ExpressionBody.
	KindClassExpression          // Same layout as ClassDeclaration.
	KindTaggedTemplateExpression // A: tag. B: type args. C: TemplateLiteral.
	KindMemberExpression         // A: object. B: IdentifierName or PrivateIdentifier. Flags: Optional.
	KindComputedMemberExpression // A: object. B: property expression. Flags: Optional.
	KindCallExpression           // A: callee. B: type args. List: arguments. Flags: Optional.
	KindNewExpression            // A: callee. B: type args. List: arguments.
	KindChainExpression          // A: the optional chain.
	KindMetaProperty             // A: meta IdentifierName. B: property IdentifierName.
	KindImportExpression         // A: source. B: options.
	KindUpdateExpression         // Op: ++ or --. A: argument. Flags: Prefix.
	KindUnaryExpression          // Op. A: argument.
	KindBinaryExpression         // Op. A: left (PrivateIdentifier for #x in o). B: right.
	KindLogicalExpression        // Op: && || ??. A: left. B: right.
	KindConditionalExpression    // A: test. B: consequent. C: alternate.
	KindAssignmentExpression     // Op. A: target. B: value.
	KindSequenceExpression       // List: expressions.
	KindParenthesizedExpression  // A: expression.
	KindYieldExpression          // A: argument. Flags: Delegate.
	KindAwaitExpression          // A: argument.

	KindObjectPattern     // List: Property, RestElement. A: TSTypeAnnotation.
	KindArrayPattern      // List: patterns, Elision, RestElement. A: TSTypeAnnotation.
	KindAssignmentPattern // A: target. B: default value.
	KindRestElement       // A: target. B: TSTypeAnnotation.

	KindFormalParameters   // List: FormalParameter, RestElement.
	KindFormalParameter    // List: decorators. A: pattern. Flags: accessibility, Readonly, Override.
	KindFunctionBody       // List: statements.
	KindClassBody          // List: class elements.
	KindMethodDefinition   // List: decorators. A: key. B: FunctionExpression. Variant: MethodKind. Flags: Static, Computed, Optional, Abstract, Override, accessibility.
	KindPropertyDefinition // List: decorators. A: key. B: TSTypeAnnotation. C: value. Flags: Static, Computed, Optional, Definite, Declare, Readonly, Abstract, Override, Accessor, accessibility.
	KindStaticBlock        // List: statements.
	KindDecorator          // A: expression.
	KindTSIndexSignature   // List: parameters. A: TSTypeAnnotation. Flags: Static, Readonly.

	KindExpressionStatement // A: expression. Flags: Directive.
	KindBlockStatement      // List: statements.
	KindEmptyStatement      //
	KindDebuggerStatement   //
	KindVariableDeclaration // Op: var, let or const. List: VariableDeclarator. Flags: Declare.
	KindVariableDeclarator  // A: pattern. B: init. Flags: Definite.
	KindFunctionDeclaration // A: name. B: type params. C: FormalParameters. D: return type. E: FunctionBody (NoNode for overloads and declare). Flags: Async, Generator, Declare.
	KindClassDeclaration    // List: decorators. A: name. B: type params. C: super class. D: TSClassImplements. E: ClassBody. Flags: Abstract, Declare.
	KindIfStatement         // A: test. B: consequent. C: alternate.
	KindForStatement        // A: init. B: test. C: update. D: body.
	KindForInStatement      // A: left. B: right. C: body.
	KindForOfStatement      // A: left. B: right. C: body. Flags: Await.
	KindWhileStatement      // A: test. B: body.
	KindDoWhileStatement    // A: body. B: test.
	KindContinueStatement   // A: label.
	KindBreakStatement      // A: label.
	KindReturnStatement     // A: argument.
	KindThrowStatement      // A: argument.
	KindWithStatement       // A: object. B: body.
	KindSwitchStatement     // A: discriminant. List: SwitchCase.
	KindSwitchCase          // A: test (NoNode for default). List: consequent.
	KindLabeledStatement    // A: LabelIdentifier. B: body.
	KindTryStatement        // A: block. B: CatchClause. C: finalizer.
	KindCatchClause         // A: parameter pattern. B: body.

	KindImportDeclaration         // List: specifiers. A: source. B: attributes object. Flags: TypeOnly.
	KindImportSpecifier           // A: imported name (NoNode when same as local). B: local BindingIdentifier. Flags: TypeOnly.
	KindImportDefaultSpecifier    // A: local.
	KindImportNamespaceSpecifier  // A: local.
	KindExportNamedDeclaration    // A: declaration. List: ExportSpecifier. B: source. C: attributes object. Flags: TypeOnly.
	KindExportDefaultDeclaration  // A: declaration or expression.
	KindExportAllDeclaration      // A: exported name. B: source. C: attributes object. Flags: TypeOnly.
	KindExportSpecifier           // A: local. B: exported (NoNode when same as local). Flags: TypeOnly.
	KindTSExportAssignment        // A: expression.
	KindTSImportEqualsDeclaration // A: BindingIdentifier. B: module reference. Flags: TypeOnly.
	KindTSExternalModuleReference // A: StringLiteral.

	KindJSXElement             // A: JSXOpeningElement. List: children. B: JSXClosingElement.
	KindJSXOpeningElement      // A: name. B: type args. List: attributes. Flags: SelfClosing.
	KindJSXClosingElement      // A: name.
	KindJSXFragment            // List: children.
	KindJSXIdentifier          // Text: name.
	KindJSXNamespacedName      // A: namespace. B: name.
	KindJSXMemberExpression    // A: object. B: JSXIdentifier.
	KindJSXAttribute           // A: name. B: value.
	KindJSXSpreadAttribute     // A: argument.
	KindJSXExpressionContainer // A: expression or JSXEmptyExpression.
	KindJSXEmptyExpression     //
	KindJSXText                // Text: raw text.
	KindJSXSpreadChild         // A: expression.

	KindTSAsExpression            // A: expression. B: type.
	KindTSSatisfiesExpression     // A: expression. B: type.
	KindTSNonNullExpression       // A: expression.
	KindTSTypeAssertion           // A: type. B: expression.
	KindTSInstantiationExpression // A: expression. B: type args.

	KindTSTypeAliasDeclaration   // A: name. B: type params. C: type. Flags: Declare.
	KindTSInterfaceDeclaration   // A: name. B: type params. C: TSInterfaceHeritage. D: TSInterfaceBody. Flags: Declare.
	KindTSInterfaceHeritage      // List: TSExpressionWithTypeArguments.
	KindTSInterfaceBody          // List: type members.
	KindTSClassImplements        // List: TSExpressionWithTypeArguments.
	KindTSExpressionWithTypeArgs // A: IdentifierReference or member chain. B: type args.
	KindTSEnumDeclaration        // A: name. List: TSEnumMember. Flags: Const, Declare.
	KindTSEnumMember             // A: IdentifierName or StringLiteral. B: initializer.
	KindTSModuleDeclaration      // A: name (BindingIdentifier, StringLiteral or TSQualifiedName). B: TSModuleBlock. Variant: module flavour. Flags: Declare.
	KindTSModuleBlock            // List: statements.
	KindTSTypeAnnotation         // A: type.
	KindTSKeywordType            // Text: keyword.
	KindTSThisType               //
	KindTSTypeReference          // A: name. B: type args.
	KindTSQualifiedName          // A: left. B: IdentifierName.
	KindTSTypeParameterDecl      // List: TSTypeParameter.
	KindTSTypeParameter          // A: BindingIdentifier. B: constraint. C: default. Flags: Const, In, Out.
	KindTSTypeParameterInst      // List: types.
	KindTSUnionType              // List: types.
	KindTSIntersectionType       // List: types.
	KindTSArrayType              // A: element type.
	KindTSTupleType              // List: element types.
	KindTSNamedTupleMember       // A: IdentifierName. B: type. Flags: Optional.
	KindTSOptionalType           // A: type.
	KindTSRestType               // A: type.
	KindTSFunctionType           // A: type params. B: FormalParameters. C: return TSTypeAnnotation.
	KindTSConstructorType        // A: type params. B: FormalParameters. C: return TSTypeAnnotation. Flags: Abstract.
	KindTSTypeLiteral            // List: type members.
	KindTSPropertySignature      // A: key. B: TSTypeAnnotation. Flags: Optional, Readonly, Computed.
	KindTSMethodSignature        // A: key. B: type params. C: FormalParameters. D: return TSTypeAnnotation. Variant: MethodKind. Flags: Optional, Computed.
	KindTSCallSignature          // A: type params. B: FormalParameters. C: return TSTypeAnnotation.
	KindTSConstructSignature     // A: type params. B: FormalParameters. C: return TSTypeAnnotation.
	KindTSLiteralType            // A: literal expression.
	KindTSTypeQuery              // A: expression name or TSImportType. B: type args.
	KindTSTypeOperator           // Text: keyof, unique or readonly. A: type.
	KindTSIndexedAccessType      // A: object type. B: index type.
	KindTSConditionalType        // A: check. B: extends. C: true type. D: false type.
	KindTSInferType              // A: TSTypeParameter.
	KindTSParenthesizedType      // A: type.
	KindTSMappedType             // A: TSTypeParameter. B: name type. C: type. Variant: mapped modifiers.
	KindTSTemplateLiteralType    // List: TemplateElement and types, alternating.
	KindTSTypePredicate          // A: parameter name (IdentifierName or TSThisType). B: TSTypeAnnotation. Flags: Asserts.
	KindTSImportType             // A: argument type. B: qualifier. C: type args.

	kindCount
)

// listPosition describes where List children sit relative to the slots in
// source order.
type listPosition uint8

const (
	listLast listPosition = iota
	listFirst
	listAfterA
	listAfterB
)

var kindListPosition = [kindCount]listPosition{
	KindFormalParameter:        listFirst,
	KindMethodDefinition:       listFirst,
	KindPropertyDefinition:     listFirst,
	KindClassDeclaration:       listFirst,
	KindClassExpression:        listFirst,
	KindImportDeclaration:      listFirst,
	KindTSIndexSignature:       listFirst,
	KindObjectPattern:          listFirst,
	KindArrayPattern:           listFirst,
	KindExportNamedDeclaration: listAfterA,
	KindJSXElement:             listAfterA,
	KindCallExpression:         listAfterB,
	KindNewExpression:          listAfterB,
	KindJSXOpeningElement:      listAfterB,
}

var kindNames = [kindCount]string{
	KindInvalid:                   "Invalid",
	KindProgram:                   "Program",
	KindError:                     "Error",
	KindIdentifierReference:       "IdentifierReference",
	KindBindingIdentifier:         "BindingIdentifier",
	KindIdentifierName:            "IdentifierName",
	KindLabelIdentifier:           "LabelIdentifier",
	KindPrivateIdentifier:         "PrivateIdentifier",
	KindNullLiteral:               "NullLiteral",
	KindBooleanLiteral:            "BooleanLiteral",
	KindNumericLiteral:            "NumericLiteral",
	KindBigIntLiteral:             "BigIntLiteral",
	KindStringLiteral:             "StringLiteral",
	KindRegExpLiteral:             "RegExpLiteral",
	KindTemplateLiteral:           "TemplateLiteral",
	KindTemplateElement:           "TemplateElement",
	KindThisExpression:            "ThisExpression",
	KindSuper:                     "Super",
	KindArrayExpression:           "ArrayExpression",
	KindElision:                   "Elision",
	KindObjectExpression:          "ObjectExpression",
	KindProperty:                  "Property",
	KindSpreadElement:             "SpreadElement",
	KindFunctionExpression:        "FunctionExpression",
	KindArrowFunctionExpression:   "ArrowFunctionExpression",
	KindClassExpression:           "ClassExpression",
	KindTaggedTemplateExpression:  "TaggedTemplateExpression",
	KindMemberExpression:          "MemberExpression",
	KindComputedMemberExpression:  "ComputedMemberExpression",
	KindCallExpression:            "CallExpression",
	KindNewExpression:             "NewExpression",
	KindChainExpression:           "ChainExpression",
	KindMetaProperty:              "MetaProperty",
	KindImportExpression:          "ImportExpression",
	KindUpdateExpression:          "UpdateExpression",
	KindUnaryExpression:           "UnaryExpression",
	KindBinaryExpression:          "BinaryExpression",
	KindLogicalExpression:         "LogicalExpression",
	KindConditionalExpression:     "ConditionalExpression",
	KindAssignmentExpression:      "AssignmentExpression",
	KindSequenceExpression:        "SequenceExpression",
	KindParenthesizedExpression:   "ParenthesizedExpression",
	KindYieldExpression:           "YieldExpression",
	KindAwaitExpression:           "AwaitExpression",
	KindObjectPattern:             "ObjectPattern",
	KindArrayPattern:              "ArrayPattern",
	KindAssignmentPattern:         "AssignmentPattern",
	KindRestElement:               "RestElement",
	KindFormalParameters:          "FormalParameters",
	KindFormalParameter:           "FormalParameter",
	KindFunctionBody:              "FunctionBody",
	KindClassBody:                 "ClassBody",
	KindMethodDefinition:          "MethodDefinition",
	KindPropertyDefinition:        "PropertyDefinition",
	KindStaticBlock:               "StaticBlock",
	KindDecorator:                 "Decorator",
	KindTSIndexSignature:          "TSIndexSignature",
	KindExpressionStatement:       "ExpressionStatement",
	KindBlockStatement:            "BlockStatement",
	KindEmptyStatement:            "EmptyStatement",
	KindDebuggerStatement:         "DebuggerStatement",
	KindVariableDeclaration:       "VariableDeclaration",
	KindVariableDeclarator:        "VariableDeclarator",
	KindFunctionDeclaration:       "FunctionDeclaration",
	KindClassDeclaration:          "ClassDeclaration",
	KindIfStatement:               "IfStatement",
	KindForStatement:              "ForStatement",
	KindForInStatement:            "ForInStatement",
	KindForOfStatement:            "ForOfStatement",
	KindWhileStatement:            "WhileStatement",
	KindDoWhileStatement:          "DoWhileStatement",
	KindContinueStatement:         "ContinueStatement",
	KindBreakStatement:            "BreakStatement",
	KindReturnStatement:           "ReturnStatement",
	KindThrowStatement:            "ThrowStatement",
	KindWithStatement:             "WithStatement",
	KindSwitchStatement:           "SwitchStatement",
	KindSwitchCase:                "SwitchCase",
	KindLabeledStatement:          "LabeledStatement",
	KindTryStatement:              "TryStatement",
	KindCatchClause:               "CatchClause",
	KindImportDeclaration:         "ImportDeclaration",
	KindImportSpecifier:           "ImportSpecifier",
	KindImportDefaultSpecifier:    "ImportDefaultSpecifier",
	KindImportNamespaceSpecifier:  "ImportNamespaceSpecifier",
	KindExportNamedDeclaration:    "ExportNamedDeclaration",
	KindExportDefaultDeclaration:  "ExportDefaultDeclaration",
	KindExportAllDeclaration:      "ExportAllDeclaration",
	KindExportSpecifier:           "ExportSpecifier",
	KindTSExportAssignment:        "TSExportAssignment",
	KindTSImportEqualsDeclaration: "TSImportEqualsDeclaration",
	KindTSExternalModuleReference: "TSExternalModuleReference",
	KindJSXElement:                "JSXElement",
	KindJSXOpeningElement:         "JSXOpeningElement",
	KindJSXClosingElement:         "JSXClosingElement",
	KindJSXFragment:               "JSXFragment",
	KindJSXIdentifier:             "JSXIdentifier",
	KindJSXNamespacedName:         "JSXNamespacedName",
	KindJSXMemberExpression:       "JSXMemberExpression",
	KindJSXAttribute:              "JSXAttribute",
	KindJSXSpreadAttribute:        "JSXSpreadAttribute",
	KindJSXExpressionContainer:    "JSXExpressionContainer",
	KindJSXEmptyExpression:        "JSXEmptyExpression",
	KindJSXText:                   "JSXText",
	KindJSXSpreadChild:            "JSXSpreadChild",
	KindTSAsExpression:            "TSAsExpression",
	KindTSSatisfiesExpression:     "TSSatisfiesExpression",
	KindTSNonNullExpression:       "TSNonNullExpression",
	KindTSTypeAssertion:           "TSTypeAssertion",
	KindTSInstantiationExpression: "TSInstantiationExpression",
	KindTSTypeAliasDeclaration:    "TSTypeAliasDeclaration",
	KindTSInterfaceDeclaration:    "TSInterfaceDeclaration",
	KindTSInterfaceHeritage:       "TSInterfaceHeritage",
	KindTSInterfaceBody:           "TSInterfaceBody",
	KindTSClassImplements:         "TSClassImplements",
	KindTSExpressionWithTypeArgs:  "TSExpressionWithTypeArguments",
	KindTSEnumDeclaration:         "TSEnumDeclaration",
	KindTSEnumMember:              "TSEnumMember",
	KindTSModuleDeclaration:       "TSModuleDeclaration",
	KindTSModuleBlock:             "TSModuleBlock",
	KindTSTypeAnnotation:          "TSTypeAnnotation",
	KindTSKeywordType:             "TSKeywordType",
	KindTSThisType:                "TSThisType",
	KindTSTypeReference:           "TSTypeReference",
	KindTSQualifiedName:           "TSQualifiedName",
	KindTSTypeParameterDecl:       "TSTypeParameterDeclaration",
	KindTSTypeParameter:           "TSTypeParameter",
	KindTSTypeParameterInst:       "TSTypeParameterInstantiation",
	KindTSUnionType:               "TSUnionType",
	KindTSIntersectionType:        "TSIntersectionType",
	KindTSArrayType:               "TSArrayType",
	KindTSTupleType:               "TSTupleType",
	KindTSNamedTupleMember:        "TSNamedTupleMember",
	KindTSOptionalType:            "TSOptionalType",
	KindTSRestType:                "TSRestType",
	KindTSFunctionType:            "TSFunctionType",
	KindTSConstructorType:         "TSConstructorType",
	KindTSTypeLiteral:             "TSTypeLiteral",
	KindTSPropertySignature:       "TSPropertySignature",
	KindTSMethodSignature:         "TSMethodSignature",
	KindTSCallSignature:           "TSCallSignatureDeclaration",
	KindTSConstructSignature:      "TSConstructSignatureDeclaration",
	KindTSLiteralType:             "TSLiteralType",
	KindTSTypeQuery:               "TSTypeQuery",
	KindTSTypeOperator:            "TSTypeOperator",
	KindTSIndexedAccessType:       "TSIndexedAccessType",
	KindTSConditionalType:         "TSConditionalType",
	KindTSInferType:               "TSInferType",
	KindTSParenthesizedType:       "TSParenthesizedType",
	KindTSMappedType:              "TSMappedType",
	KindTSTemplateLiteralType:     "TSTemplateLiteralType",
	KindTSTypePredicate:           "TSTypePredicate",
	KindTSImportType:              "TSImportType",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsFunction reports whether the kind introduces a function boundary with its
// own parameters and body.
func (k Kind) IsFunction() bool {
	switch k {
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunctionExpression:
		return true
	}
	return false
}

// IsClass reports whether the kind is a class declaration or expression.
func (k Kind) IsClass() bool {
	return k == KindClassDeclaration || k == KindClassExpression
}

// IsTSType reports whether the kind belongs to the TypeScript type grammar.
func (k Kind) IsTSType() bool {
	return k >= KindTSTypeAnnotation && k <= KindTSImportType
}

// IsLiteral reports whether the kind is a primitive literal.
func (k Kind) IsLiteral() bool {
	return k >= KindNullLiteral && k <= KindRegExpLiteral
}

// IsLoop reports whether the kind is an iteration statement.
func (k Kind) IsLoop() bool {
	switch k {
	case KindForStatement, KindForInStatement, KindForOfStatement, KindWhileStatement, KindDoWhileStatement:
		return true
	}
	return false
}
