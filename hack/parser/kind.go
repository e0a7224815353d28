package parser

// SyntaxKind is the closed vocabulary of productions the grammar engine can
// report to a strategy. Every kind has a fixed list of child fields; Make is
// always called with exactly that many children.
type SyntaxKind int

const (
	KindMissing SyntaxKind = iota
	KindToken
	KindSyntaxList
	KindEndOfFile
	KindScript
	KindQualifiedName
	KindSimpleTypeSpecifier
	KindLiteralExpression
	KindVariableExpression
	KindPipeVariableExpression
	KindFileAttributeSpecification
	KindEnumDeclaration
	KindEnumerator
	KindAliasDeclaration
	KindPropertyDeclaration
	KindPropertyDeclarator
	KindNamespaceDeclaration
	KindNamespaceDeclarationHeader
	KindNamespaceBody
	KindNamespaceEmptyBody
	KindNamespaceUseDeclaration
	KindNamespaceGroupUseDeclaration
	KindNamespaceUseClause
	KindFunctionDeclaration
	KindFunctionDeclarationHeader
	KindWhereClause
	KindWhereConstraint
	KindMethodishDeclaration
	KindClassishDeclaration
	KindClassishBody
	KindTraitUsePrecedenceItem
	KindTraitUseAliasItem
	KindTraitUseConflictResolution
	KindTraitUse
	KindRequireClause
	KindConstDeclaration
	KindConstantDeclarator
	KindTypeConstDeclaration
	KindDecoratedExpression
	KindParameterDeclaration
	KindVariadicParameter
	KindOldAttributeSpecification
	KindAttributeSpecification
	KindAttribute
	KindInclusionExpression
	KindInclusionDirective
	KindCompoundStatement
	KindExpressionStatement
	KindMarkupSection
	KindMarkupSuffix
	KindUnsetStatement
	KindUsingStatementBlockScoped
	KindUsingStatementFunctionScoped
	KindWhileStatement
	KindIfStatement
	KindElseifClause
	KindElseClause
	KindTryStatement
	KindCatchClause
	KindFinallyClause
	KindDoStatement
	KindForStatement
	KindForeachStatement
	KindSwitchStatement
	KindSwitchSection
	KindCaseLabel
	KindDefaultLabel
	KindReturnStatement
	KindGotoLabel
	KindGotoStatement
	KindThrowStatement
	KindBreakStatement
	KindContinueStatement
	KindEchoStatement
	KindConcurrentStatement
	KindSimpleInitializer
	KindAnonymousClass
	KindAnonymousFunction
	KindAnonymousFunctionUseClause
	KindLambdaExpression
	KindLambdaSignature
	KindCastExpression
	KindScopeResolutionExpression
	KindMemberSelectionExpression
	KindSafeMemberSelectionExpression
	KindYieldExpression
	KindYieldFromExpression
	KindPrefixUnaryExpression
	KindPostfixUnaryExpression
	KindBinaryExpression
	KindIsExpression
	KindAsExpression
	KindNullableAsExpression
	KindConditionalExpression
	KindEvalExpression
	KindDefineExpression
	KindHaltCompilerExpression
	KindIssetExpression
	KindFunctionCallExpression
	KindParenthesizedExpression
	KindBracedExpression
	KindListExpression
	KindCollectionLiteralExpression
	KindObjectCreationExpression
	KindConstructorCall
	KindArrayCreationExpression
	KindArrayIntrinsicExpression
	KindDarrayIntrinsicExpression
	KindDictionaryIntrinsicExpression
	KindKeysetIntrinsicExpression
	KindVarrayIntrinsicExpression
	KindVectorIntrinsicExpression
	KindElementInitializer
	KindSubscriptExpression
	KindAwaitableCreationExpression
	KindTypeConstant
	KindVectorTypeSpecifier
	KindKeysetTypeSpecifier
	KindTupleTypeExplicitSpecifier
	KindVarrayTypeSpecifier
	KindVectorArrayTypeSpecifier
	KindTypeParameter
	KindTypeConstraint
	KindDarrayTypeSpecifier
	KindMapArrayTypeSpecifier
	KindDictionaryTypeSpecifier
	KindClosureTypeSpecifier
	KindClosureParameterTypeSpecifier
	KindClassnameTypeSpecifier
	KindFieldSpecifier
	KindFieldInitializer
	KindShapeTypeSpecifier
	KindShapeExpression
	KindTupleExpression
	KindGenericTypeSpecifier
	KindNullableTypeSpecifier
	KindLikeTypeSpecifier
	KindSoftTypeSpecifier
	KindAttributizedSpecifier
	KindReifiedTypeArgument
	KindTypeArguments
	KindTypeParameters
	KindTupleTypeSpecifier
	KindErrorSyntax
	KindListItem

	kindCount
)

type kindInfo struct {
	name   string
	fields []string
}

// kindInfos is indexed by kind. kind_test.go checks that no entry is left
// empty, so adding a constant without describing it fails the build's tests.
var kindInfos = [kindCount]kindInfo{
	KindMissing:                    {"missing", nil},
	KindToken:                      {"token", nil},
	KindSyntaxList:                 {"list", nil},
	KindEndOfFile:                  {"end_of_file", named("token")},
	KindScript:                     {"script", named("declarations")},
	KindQualifiedName:              {"qualified_name", named("parts")},
	KindSimpleTypeSpecifier:        {"simple_type_specifier", named("specifier")},
	KindLiteralExpression:          {"literal", named("expression")},
	KindVariableExpression:         {"variable", named("expression")},
	KindPipeVariableExpression:     {"pipe_variable", named("expression")},
	KindFileAttributeSpecification: {"file_attribute_specification", named("left_double_angle", "keyword", "colon", "attributes", "right_double_angle")},
	KindEnumDeclaration:            {"enum_declaration", named("attribute_spec", "keyword", "name", "colon", "base", "type", "left_brace", "enumerators", "right_brace")},
	KindEnumerator:                 {"enumerator", named("name", "equal", "value", "semicolon")},
	KindAliasDeclaration:           {"alias_declaration", named("attribute_spec", "keyword", "name", "generic_parameter", "constraint", "equal", "type", "semicolon")},
	KindPropertyDeclaration:        {"property_declaration", named("attribute_spec", "modifiers", "type", "declarators", "semicolon")},
	KindPropertyDeclarator:         {"property_declarator", named("name", "initializer")},
	KindNamespaceDeclaration:       {"namespace_declaration", named("header", "body")},
	KindNamespaceDeclarationHeader: {"namespace_declaration_header", named("keyword", "name")},
	KindNamespaceBody:              {"namespace_body", named("left_brace", "declarations", "right_brace")},
	KindNamespaceEmptyBody:         {"namespace_empty_body", named("semicolon")},
	KindNamespaceUseDeclaration:    {"namespace_use_declaration", named("keyword", "kind", "clauses", "semicolon")},
	KindNamespaceGroupUseDeclaration: {"namespace_group_use_declaration",
		named("keyword", "kind", "prefix", "left_brace", "clauses", "right_brace", "semicolon")},
	KindNamespaceUseClause:    {"namespace_use_clause", named("clause_kind", "name", "as", "alias")},
	KindFunctionDeclaration:   {"function_declaration", named("attribute_spec", "declaration_header", "body")},
	KindFunctionDeclarationHeader: {"function_declaration_header",
		named("modifiers", "keyword", "name", "type_parameter_list", "left_paren", "parameter_list", "right_paren", "colon", "type", "where_clause")},
	KindWhereClause:          {"where_clause", named("keyword", "constraints")},
	KindWhereConstraint:      {"where_constraint", named("left_type", "operator", "right_type")},
	KindMethodishDeclaration: {"methodish_declaration", named("attribute", "function_decl_header", "function_body", "semicolon")},
	KindClassishDeclaration: {"classish_declaration",
		named("attribute", "modifiers", "keyword", "name", "type_parameters", "extends_keyword", "extends_list", "implements_keyword", "implements_list", "where_clause", "body")},
	KindClassishBody:               {"classish_body", named("left_brace", "elements", "right_brace")},
	KindTraitUsePrecedenceItem:     {"trait_use_precedence_item", named("name", "keyword", "removed_names")},
	KindTraitUseAliasItem:          {"trait_use_alias_item", named("aliasing_name", "keyword", "modifiers", "aliased_name")},
	KindTraitUseConflictResolution: {"trait_use_conflict_resolution", named("keyword", "names", "left_brace", "clauses", "right_brace")},
	KindTraitUse:                   {"trait_use", named("keyword", "names", "semicolon")},
	KindRequireClause:              {"require_clause", named("keyword", "kind", "name", "semicolon")},
	KindConstDeclaration:           {"const_declaration", named("modifiers", "keyword", "type_specifier", "declarators", "semicolon")},
	KindConstantDeclarator:         {"constant_declarator", named("name", "initializer")},
	KindTypeConstDeclaration: {"type_const_declaration",
		named("attribute_spec", "abstract", "keyword", "type_keyword", "name", "type_parameters", "type_constraint", "equal", "type_specifier", "semicolon")},
	KindDecoratedExpression:       {"decorated_expression", named("decorator", "expression")},
	KindParameterDeclaration:      {"parameter_declaration", named("attribute", "visibility", "call_convention", "type", "name", "default_value")},
	KindVariadicParameter:         {"variadic_parameter", named("call_convention", "type", "ellipsis")},
	KindOldAttributeSpecification: {"old_attribute_specification", named("left_double_angle", "attributes", "right_double_angle")},
	KindAttributeSpecification:    {"attribute_specification", named("attributes")},
	KindAttribute:                 {"attribute", named("at", "attribute_name")},
	KindInclusionExpression:       {"inclusion_expression", named("require", "filename")},
	KindInclusionDirective:        {"inclusion_directive", named("expression", "semicolon")},
	KindCompoundStatement:         {"compound_statement", named("left_brace", "statements", "right_brace")},
	KindExpressionStatement:       {"expression_statement", named("expression", "semicolon")},
	KindMarkupSection:             {"markup_section", named("prefix", "text", "suffix")},
	KindMarkupSuffix:              {"markup_suffix", named("less_than_question", "name")},
	KindUnsetStatement:            {"unset_statement", named("keyword", "left_paren", "variables", "right_paren", "semicolon")},
	KindUsingStatementBlockScoped: {"using_statement_block_scoped", named("await_keyword", "using_keyword", "left_paren", "expressions", "right_paren", "body")},
	KindUsingStatementFunctionScoped: {"using_statement_function_scoped",
		named("await_keyword", "using_keyword", "expression", "semicolon")},
	KindWhileStatement: {"while_statement", named("keyword", "left_paren", "condition", "right_paren", "body")},
	KindIfStatement:    {"if_statement", named("keyword", "left_paren", "condition", "right_paren", "statement", "elseif_clauses", "else_clause")},
	KindElseifClause:   {"elseif_clause", named("keyword", "left_paren", "condition", "right_paren", "statement")},
	KindElseClause:     {"else_clause", named("keyword", "statement")},
	KindTryStatement:   {"try_statement", named("keyword", "compound_statement", "catch_clauses", "finally_clause")},
	KindCatchClause:    {"catch_clause", named("keyword", "left_paren", "type", "variable", "right_paren", "body")},
	KindFinallyClause:  {"finally_clause", named("keyword", "body")},
	KindDoStatement:    {"do_statement", named("keyword", "body", "while_keyword", "left_paren", "condition", "right_paren", "semicolon")},
	KindForStatement: {"for_statement",
		named("keyword", "left_paren", "initializer", "first_semicolon", "control", "second_semicolon", "end_of_loop", "right_paren", "body")},
	KindForeachStatement: {"foreach_statement",
		named("keyword", "left_paren", "collection", "await_keyword", "as", "key", "arrow", "value", "right_paren", "body")},
	KindSwitchStatement:     {"switch_statement", named("keyword", "left_paren", "expression", "right_paren", "left_brace", "sections", "right_brace")},
	KindSwitchSection:       {"switch_section", named("labels", "statements")},
	KindCaseLabel:           {"case_label", named("keyword", "expression", "colon")},
	KindDefaultLabel:        {"default_label", named("keyword", "colon")},
	KindReturnStatement:     {"return_statement", named("keyword", "expression", "semicolon")},
	KindGotoLabel:           {"goto_label", named("name", "colon")},
	KindGotoStatement:       {"goto_statement", named("keyword", "label_name", "semicolon")},
	KindThrowStatement:      {"throw_statement", named("keyword", "expression", "semicolon")},
	KindBreakStatement:      {"break_statement", named("keyword", "level", "semicolon")},
	KindContinueStatement:   {"continue_statement", named("keyword", "level", "semicolon")},
	KindEchoStatement:       {"echo_statement", named("keyword", "expressions", "semicolon")},
	KindConcurrentStatement: {"concurrent_statement", named("keyword", "statement")},
	KindSimpleInitializer:   {"simple_initializer", named("equal", "value")},
	KindAnonymousClass: {"anonymous_class",
		named("class_keyword", "left_paren", "argument_list", "right_paren", "extends_keyword", "extends_list", "implements_keyword", "implements_list", "body")},
	KindAnonymousFunction: {"anonymous_function",
		named("attribute_spec", "static_keyword", "async_keyword", "function_keyword", "left_paren", "parameters", "right_paren", "colon", "type", "use", "body")},
	KindAnonymousFunctionUseClause:    {"anonymous_function_use_clause", named("keyword", "left_paren", "variables", "right_paren")},
	KindLambdaExpression:              {"lambda_expression", named("attribute_spec", "async", "signature", "arrow", "body")},
	KindLambdaSignature:               {"lambda_signature", named("left_paren", "parameters", "right_paren", "colon", "type")},
	KindCastExpression:                {"cast_expression", named("left_paren", "type", "right_paren", "operand")},
	KindScopeResolutionExpression:     {"scope_resolution_expression", named("qualifier", "operator", "name")},
	KindMemberSelectionExpression:     {"member_selection_expression", named("object", "operator", "name")},
	KindSafeMemberSelectionExpression: {"safe_member_selection_expression", named("object", "operator", "name")},
	KindYieldExpression:               {"yield_expression", named("keyword", "operand")},
	KindYieldFromExpression:           {"yield_from_expression", named("yield_keyword", "from_keyword", "operand")},
	KindPrefixUnaryExpression:         {"prefix_unary_expression", named("operator", "operand")},
	KindPostfixUnaryExpression:        {"postfix_unary_expression", named("operand", "operator")},
	KindBinaryExpression:              {"binary_expression", named("left_operand", "operator", "right_operand")},
	KindIsExpression:                  {"is_expression", named("left_operand", "operator", "right_operand")},
	KindAsExpression:                  {"as_expression", named("left_operand", "operator", "right_operand")},
	KindNullableAsExpression:          {"nullable_as_expression", named("left_operand", "operator", "right_operand")},
	KindConditionalExpression:         {"conditional_expression", named("test", "question", "consequence", "colon", "alternative")},
	KindEvalExpression:                {"eval_expression", named("keyword", "left_paren", "argument", "right_paren")},
	KindDefineExpression:              {"define_expression", named("keyword", "left_paren", "argument_list", "right_paren")},
	KindHaltCompilerExpression:        {"halt_compiler_expression", named("keyword", "left_paren", "argument_list", "right_paren")},
	KindIssetExpression:               {"isset_expression", named("keyword", "left_paren", "argument_list", "right_paren")},
	KindFunctionCallExpression:        {"function_call_expression", named("receiver", "type_args", "left_paren", "argument_list", "right_paren")},
	KindParenthesizedExpression:       {"parenthesized_expression", named("left_paren", "expression", "right_paren")},
	KindBracedExpression:              {"braced_expression", named("left_brace", "expression", "right_brace")},
	KindListExpression:                {"list_expression", named("keyword", "left_paren", "members", "right_paren")},
	KindCollectionLiteralExpression:   {"collection_literal_expression", named("name", "left_brace", "initializers", "right_brace")},
	KindObjectCreationExpression:      {"object_creation_expression", named("new_keyword", "object")},
	KindConstructorCall:               {"constructor_call", named("type", "left_paren", "argument_list", "right_paren")},
	KindArrayCreationExpression:       {"array_creation_expression", named("left_bracket", "members", "right_bracket")},
	KindArrayIntrinsicExpression:      {"array_intrinsic_expression", named("keyword", "left_paren", "members", "right_paren")},
	KindDarrayIntrinsicExpression:     {"darray_intrinsic_expression", named("keyword", "explicit_type", "left_bracket", "members", "right_bracket")},
	KindDictionaryIntrinsicExpression: {"dictionary_intrinsic_expression", named("keyword", "explicit_type", "left_bracket", "members", "right_bracket")},
	KindKeysetIntrinsicExpression:     {"keyset_intrinsic_expression", named("keyword", "explicit_type", "left_bracket", "members", "right_bracket")},
	KindVarrayIntrinsicExpression:     {"varray_intrinsic_expression", named("keyword", "explicit_type", "left_bracket", "members", "right_bracket")},
	KindVectorIntrinsicExpression:     {"vector_intrinsic_expression", named("keyword", "explicit_type", "left_bracket", "members", "right_bracket")},
	KindElementInitializer:            {"element_initializer", named("key", "arrow", "value")},
	KindSubscriptExpression:           {"subscript_expression", named("receiver", "left_bracket", "index", "right_bracket")},
	KindAwaitableCreationExpression:   {"awaitable_creation_expression", named("attribute_spec", "async", "compound_statement")},
	KindTypeConstant:                  {"type_constant", named("left_type", "separator", "right_type")},
	KindVectorTypeSpecifier:           {"vector_type_specifier", named("keyword", "left_angle", "type", "trailing_comma", "right_angle")},
	KindKeysetTypeSpecifier:           {"keyset_type_specifier", named("keyword", "left_angle", "type", "trailing_comma", "right_angle")},
	KindTupleTypeExplicitSpecifier:    {"tuple_type_explicit_specifier", named("keyword", "left_angle", "types", "right_angle")},
	KindVarrayTypeSpecifier:           {"varray_type_specifier", named("keyword", "left_angle", "type", "trailing_comma", "right_angle")},
	KindVectorArrayTypeSpecifier:      {"vector_array_type_specifier", named("keyword", "left_angle", "type", "right_angle")},
	KindTypeParameter:                 {"type_parameter", named("attribute_spec", "reified", "variance", "name", "constraints")},
	KindTypeConstraint:                {"type_constraint", named("keyword", "type")},
	KindDarrayTypeSpecifier:           {"darray_type_specifier", named("keyword", "left_angle", "key", "comma", "value", "trailing_comma", "right_angle")},
	KindMapArrayTypeSpecifier:         {"map_array_type_specifier", named("keyword", "left_angle", "key", "comma", "value", "right_angle")},
	KindDictionaryTypeSpecifier:       {"dictionary_type_specifier", named("keyword", "left_angle", "members", "right_angle")},
	KindClosureTypeSpecifier: {"closure_type_specifier",
		named("outer_left_paren", "function_keyword", "inner_left_paren", "parameter_list", "inner_right_paren", "colon", "return_type", "outer_right_paren")},
	KindClosureParameterTypeSpecifier: {"closure_parameter_type_specifier", named("call_convention", "type")},
	KindClassnameTypeSpecifier:        {"classname_type_specifier", named("keyword", "left_angle", "type", "trailing_comma", "right_angle")},
	KindFieldSpecifier:                {"field_specifier", named("question", "name", "arrow", "type")},
	KindFieldInitializer:              {"field_initializer", named("name", "arrow", "value")},
	KindShapeTypeSpecifier:            {"shape_type_specifier", named("keyword", "left_paren", "fields", "ellipsis", "right_paren")},
	KindShapeExpression:               {"shape_expression", named("keyword", "left_paren", "fields", "right_paren")},
	KindTupleExpression:               {"tuple_expression", named("keyword", "left_paren", "items", "right_paren")},
	KindGenericTypeSpecifier:          {"generic_type_specifier", named("class_type", "argument_list")},
	KindNullableTypeSpecifier:         {"nullable_type_specifier", named("question", "type")},
	KindLikeTypeSpecifier:             {"like_type_specifier", named("tilde", "type")},
	KindSoftTypeSpecifier:             {"soft_type_specifier", named("at", "type")},
	KindAttributizedSpecifier:         {"attributized_specifier", named("attribute_spec", "type")},
	KindReifiedTypeArgument:           {"reified_type_argument", named("reified", "type")},
	KindTypeArguments:                 {"type_arguments", named("left_angle", "types", "right_angle")},
	KindTypeParameters:                {"type_parameters", named("left_angle", "parameters", "right_angle")},
	KindTupleTypeSpecifier:            {"tuple_type_specifier", named("left_paren", "types", "right_paren")},
	KindErrorSyntax:                   {"error", named("error")},
	KindListItem:                      {"list_item", named("item", "separator")},
}

func named(names ...string) []string { return names }

func (k SyntaxKind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindInfos[k].name
}

// Arity is the number of children Make receives for k.
func (k SyntaxKind) Arity() int {
	if k < 0 || k >= kindCount {
		return 0
	}
	return len(kindInfos[k].fields)
}

// Fields names the children of k in grammar order.
func (k SyntaxKind) Fields() []string {
	if k < 0 || k >= kindCount {
		return nil
	}
	return kindInfos[k].fields
}

// Kinds lists every syntax kind in declaration order.
func Kinds() []SyntaxKind {
	kinds := make([]SyntaxKind, kindCount)
	for i := range kinds {
		kinds[i] = SyntaxKind(i)
	}
	return kinds
}
