// Package parser turns JSON text into the ordered value tree the synthesizer
// consumes. It decodes token by token so that object member order is exactly
// the order the document declared, which encoding/json's map-based decoding
// would lose.
package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/shapegen/shapegen/internal/errors"
	"github.com/shapegen/shapegen/internal/models"
)

// Parse converts JSON data from an io.Reader into a Document.
func Parse(reader io.Reader) (models.Document, error) {
	dec := jsontext.NewDecoder(reader)

	root, err := parseValue(dec)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxErr *jsontext.SyntacticError
		if stderrors.As(err, &syntaxErr) {
			return models.Document{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxErr.ByteOffset),
				errors.ErrInvalidJSON,
			)
		}
		return models.Document{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Anything but whitespace after the first value means more than one JSON
	// value at the root.
	if _, err := dec.ReadValue(); err == nil {
		return models.Document{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.Document{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	return models.Document{
		Root:        root,
		RootIsArray: root.Kind == models.Array,
	}, nil
}

// parseValue reads one complete JSON value from the decoder.
func parseValue(dec *jsontext.Decoder) (models.Value, error) {
	switch dec.PeekKind() {
	case '{':
		return parseObject(dec)
	case '[':
		return parseArray(dec)
	default:
		tok, err := dec.ReadToken()
		if err != nil {
			return models.Value{}, err
		}
		switch tok.Kind() {
		case 'n':
			return models.Value{Kind: models.Null}, nil
		case 't', 'f':
			return models.Value{Kind: models.Bool, Bool: tok.Bool()}, nil
		case '"':
			return models.Value{Kind: models.String, Str: tok.String()}, nil
		case '0':
			return numberValue(tok.String()), nil
		default:
			return models.Value{}, fmt.Errorf("unexpected token kind %q", tok.Kind())
		}
	}
}

func parseObject(dec *jsontext.Decoder) (models.Value, error) {
	if _, err := dec.ReadToken(); err != nil { // consume '{'
		return models.Value{}, err
	}

	var members []models.Member
	for dec.PeekKind() != '}' {
		nameTok, err := dec.ReadToken()
		if err != nil {
			return models.Value{}, err
		}
		// The token is only valid until the next decoder call, so take the
		// member name before recursing.
		key := nameTok.String()
		val, err := parseValue(dec)
		if err != nil {
			return models.Value{}, err
		}
		members = append(members, models.Member{Key: key, Value: val})
	}

	if _, err := dec.ReadToken(); err != nil { // consume '}'
		return models.Value{}, err
	}
	return models.Value{Kind: models.Object, Members: members}, nil
}

func parseArray(dec *jsontext.Decoder) (models.Value, error) {
	if _, err := dec.ReadToken(); err != nil { // consume '['
		return models.Value{}, err
	}

	items := []models.Value{}
	for dec.PeekKind() != ']' {
		val, err := parseValue(dec)
		if err != nil {
			return models.Value{}, err
		}
		items = append(items, val)
	}

	if _, err := dec.ReadToken(); err != nil { // consume ']'
		return models.Value{}, err
	}
	return models.Value{Kind: models.Array, Items: items}, nil
}

// numberValue classifies a raw JSON number literal. Literals without a
// fraction or exponent that fit in int64 become Int; everything else,
// including integral values beyond the int64 range, becomes Double.
func numberValue(lit string) models.Value {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return models.Value{Kind: models.Int, Int: i}
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		// The decoder already validated the literal, so this cannot fail for
		// well-formed input; fall back to zero rather than propagate.
		f = 0
	}
	return models.Value{Kind: models.Double, Num: f}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
