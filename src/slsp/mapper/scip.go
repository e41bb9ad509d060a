package mapper

import (
	"github.com/sourcegraph/scip/bindings/go/scip"
	"go.lsp.dev/protocol"
)

// ScipToProtocolRange maps a SCIP range array to a LSP protocol Range
func ScipToProtocolRange(rng []int32) protocol.Range {
	parsed, err := scip.NewRange(rng)
	if err != nil {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: ScipToProtocolPosition(parsed.Start),
		End:   ScipToProtocolPosition(parsed.End),
	}
}

// ScipToProtocolPosition maps a SCIP position to an LSP position
func ScipToProtocolPosition(pos scip.Position) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line),
		Character: uint32(pos.Character),
	}
}

// ScipOccurrenceToLocation converts an occurrence into a protocol.Location at
// the given document URI.
func ScipOccurrenceToLocation(uri protocol.URI, occ *scip.Occurrence) *protocol.Location {
	return &protocol.Location{
		URI:   uri,
		Range: ScipToProtocolRange(occ.Range),
	}
}

// ScipOccurrenceToLocationLink converts an occurrence into a
// protocol.LocationLink. The last argument allows the caller to define a
// selectionRange of the origin of the link.
func ScipOccurrenceToLocationLink(uri protocol.URI, occ *scip.Occurrence, origSelection *protocol.Range) *protocol.LocationLink {
	return &protocol.LocationLink{
		OriginSelectionRange: origSelection,
		TargetURI:            uri,
		TargetRange:          ScipToProtocolRange(occ.Range),
		TargetSelectionRange: ScipToProtocolRange(occ.Range),
	}
}

// ScipSymbolInformationToDocumentSymbol converts from scip.SymbolInformation to protocol.DocumentSymbol.
func ScipSymbolInformationToDocumentSymbol(symbolInfo *scip.SymbolInformation, occ *scip.Occurrence) *protocol.DocumentSymbol {
	name := symbolInfo.DisplayName
	if name == "" {
		name = ScipSymbolToDisplayName(symbolInfo.Symbol)
	}
	return &protocol.DocumentSymbol{
		Name:           name,
		Detail:         symbolInfo.Symbol,
		Kind:           ScipSymbolKindToDocumentSymbolKind(symbolInfo.Kind),
		Range:          ScipToProtocolRange(occ.Range),
		SelectionRange: ScipToProtocolRange(occ.Range),
	}
}

// ScipSymbolToDisplayName parses a symbol and returns the name of its last
// descriptor. The symbol string itself is returned when it cannot be parsed.
func ScipSymbolToDisplayName(symbolStr string) string {
	symbol, err := scip.ParseSymbol(symbolStr)
	if symbol == nil || err != nil || len(symbol.Descriptors) == 0 {
		return symbolStr
	}

	lastDescriptor := symbol.Descriptors[len(symbol.Descriptors)-1]
	return lastDescriptor.Name
}

// ScipSymbolKindToDocumentSymbolKind converts from scip.SymbolInformation_Kind to protocol.SymbolKind.
func ScipSymbolKindToDocumentSymbolKind(symbolKind scip.SymbolInformation_Kind) protocol.SymbolKind {

	symKindMap := map[scip.SymbolInformation_Kind]protocol.SymbolKind{
		scip.SymbolInformation_Function:       protocol.SymbolKindFunction,
		scip.SymbolInformation_File:           protocol.SymbolKindFile,
		scip.SymbolInformation_Module:         protocol.SymbolKindModule,
		scip.SymbolInformation_Namespace:      protocol.SymbolKindNamespace,
		scip.SymbolInformation_Package:        protocol.SymbolKindPackage,
		scip.SymbolInformation_PackageObject:  protocol.SymbolKindPackage,
		scip.SymbolInformation_Class:          protocol.SymbolKindClass,
		scip.SymbolInformation_TypeClass:      protocol.SymbolKindClass,
		scip.SymbolInformation_Method:         protocol.SymbolKindMethod,
		scip.SymbolInformation_MethodReceiver: protocol.SymbolKindMethod,
		scip.SymbolInformation_Property:       protocol.SymbolKindProperty,
		scip.SymbolInformation_Field:          protocol.SymbolKindField,
		scip.SymbolInformation_Constructor:    protocol.SymbolKindConstructor,
		scip.SymbolInformation_Enum:           protocol.SymbolKindEnum,
		scip.SymbolInformation_EnumMember:     protocol.SymbolKindEnumMember,
		scip.SymbolInformation_Interface:      protocol.SymbolKindInterface,
		scip.SymbolInformation_Variable:       protocol.SymbolKindVariable,
		scip.SymbolInformation_Constant:       protocol.SymbolKindConstant,
		scip.SymbolInformation_String:         protocol.SymbolKindString,
		scip.SymbolInformation_Number:         protocol.SymbolKindNumber,
		scip.SymbolInformation_Boolean:        protocol.SymbolKindBoolean,
		scip.SymbolInformation_Array:          protocol.SymbolKindArray,
		scip.SymbolInformation_Object:         protocol.SymbolKindObject,
		scip.SymbolInformation_Key:            protocol.SymbolKindKey,
		scip.SymbolInformation_Null:           protocol.SymbolKindNull,
		scip.SymbolInformation_Struct:         protocol.SymbolKindStruct,
		scip.SymbolInformation_Event:          protocol.SymbolKindEvent,
		scip.SymbolInformation_Operator:       protocol.SymbolKindOperator,
		scip.SymbolInformation_Type:           protocol.SymbolKindTypeParameter,
	}

	kind, ok := symKindMap[symbolKind]
	if !ok {
		return protocol.SymbolKindNull
	}
	return kind
}
