package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TypeKind is the semantic class of a resolved column type.
type TypeKind int

const (
	// KindUnknown is the fallback for raw types the resolution table has
	// not learned. Reflection never fails on an unknown type.
	KindUnknown TypeKind = iota
	KindBoolean
	KindTinyInt
	KindSmallInt
	KindInteger
	KindBigInt
	KindHugeInt
	KindUTinyInt
	KindUSmallInt
	KindUInteger
	KindUBigInt
	KindFloat
	KindDouble
	KindDecimal
	KindVarchar
	KindBlob
	KindBit
	KindDate
	KindTime
	KindTimestamp
	KindTimestampTZ
	KindInterval
	KindUUID
	KindJSON
	KindList
	KindStruct
	KindMap
	KindEnum
	KindUnion
)

var kindNames = map[TypeKind]string{
	KindUnknown:     "UNKNOWN",
	KindBoolean:     "BOOLEAN",
	KindTinyInt:     "TINYINT",
	KindSmallInt:    "SMALLINT",
	KindInteger:     "INTEGER",
	KindBigInt:      "BIGINT",
	KindHugeInt:     "HUGEINT",
	KindUTinyInt:    "UTINYINT",
	KindUSmallInt:   "USMALLINT",
	KindUInteger:    "UINTEGER",
	KindUBigInt:     "UBIGINT",
	KindFloat:       "FLOAT",
	KindDouble:      "DOUBLE",
	KindDecimal:     "DECIMAL",
	KindVarchar:     "VARCHAR",
	KindBlob:        "BLOB",
	KindBit:         "BIT",
	KindDate:        "DATE",
	KindTime:        "TIME",
	KindTimestamp:   "TIMESTAMP",
	KindTimestampTZ: "TIMESTAMP WITH TIME ZONE",
	KindInterval:    "INTERVAL",
	KindUUID:        "UUID",
	KindJSON:        "JSON",
	KindList:        "LIST",
	KindStruct:      "STRUCT",
	KindMap:         "MAP",
	KindEnum:        "ENUM",
	KindUnion:       "UNION",
}

func (k TypeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Type is a resolved column type. Raw always preserves the catalog's
// spelling, so an Unknown kind loses no information.
type Type struct {
	Kind      TypeKind
	Raw       string
	Precision int // DECIMAL only
	Scale     int // DECIMAL only
}

// TypeMap resolves raw catalog type strings to semantic types.
type TypeMap struct {
	byName map[string]TypeKind
}

// DefaultTypeMap returns the resolution table for the engine's built-in
// types, including the aliases the catalog may emit.
func DefaultTypeMap() *TypeMap {
	return &TypeMap{byName: map[string]TypeKind{
		"BOOLEAN":                  KindBoolean,
		"BOOL":                     KindBoolean,
		"LOGICAL":                  KindBoolean,
		"TINYINT":                  KindTinyInt,
		"INT1":                     KindTinyInt,
		"SMALLINT":                 KindSmallInt,
		"INT2":                     KindSmallInt,
		"SHORT":                    KindSmallInt,
		"INTEGER":                  KindInteger,
		"INT":                      KindInteger,
		"INT4":                     KindInteger,
		"SIGNED":                   KindInteger,
		"BIGINT":                   KindBigInt,
		"INT8":                     KindBigInt,
		"LONG":                     KindBigInt,
		"HUGEINT":                  KindHugeInt,
		"UTINYINT":                 KindUTinyInt,
		"USMALLINT":                KindUSmallInt,
		"UINTEGER":                 KindUInteger,
		"UBIGINT":                  KindUBigInt,
		"FLOAT":                    KindFloat,
		"FLOAT4":                   KindFloat,
		"REAL":                     KindFloat,
		"DOUBLE":                   KindDouble,
		"FLOAT8":                   KindDouble,
		"DECIMAL":                  KindDecimal,
		"NUMERIC":                  KindDecimal,
		"VARCHAR":                  KindVarchar,
		"CHAR":                     KindVarchar,
		"BPCHAR":                   KindVarchar,
		"TEXT":                     KindVarchar,
		"STRING":                   KindVarchar,
		"BLOB":                     KindBlob,
		"BYTEA":                    KindBlob,
		"BINARY":                   KindBlob,
		"VARBINARY":                KindBlob,
		"BIT":                      KindBit,
		"BITSTRING":                KindBit,
		"DATE":                     KindDate,
		"TIME":                     KindTime,
		"TIMESTAMP":                KindTimestamp,
		"DATETIME":                 KindTimestamp,
		"TIMESTAMP_S":              KindTimestamp,
		"TIMESTAMP_MS":             KindTimestamp,
		"TIMESTAMP_NS":             KindTimestamp,
		"TIMESTAMP WITH TIME ZONE": KindTimestampTZ,
		"TIMESTAMPTZ":              KindTimestampTZ,
		"INTERVAL":                 KindInterval,
		"UUID":                     KindUUID,
		"JSON":                     KindJSON,
		"STRUCT":                   KindStruct,
		"MAP":                      KindMap,
		"ENUM":                     KindEnum,
		"UNION":                    KindUnion,
	}}
}

var decimalArgsRE = regexp.MustCompile(`^(?:DECIMAL|NUMERIC)\s*\(\s*(\d+)\s*,\s*(\d+)\s*\)$`)

// Resolve maps a raw catalog type string to a Type. Unknown spellings
// resolve to KindUnknown with the raw text preserved — reflection must not
// block on a type the table has not yet learned.
func (m *TypeMap) Resolve(raw string) Type {
	normalized := strings.ToUpper(strings.TrimSpace(raw))

	// LIST types are spelled as the element type followed by [].
	if strings.HasSuffix(normalized, "[]") {
		return Type{Kind: KindList, Raw: raw}
	}

	if match := decimalArgsRE.FindStringSubmatch(normalized); match != nil {
		precision, _ := strconv.Atoi(match[1])
		scale, _ := strconv.Atoi(match[2])
		return Type{Kind: KindDecimal, Raw: raw, Precision: precision, Scale: scale}
	}

	// Parameterized and nested types resolve by their base name:
	// VARCHAR(32), STRUCT(a INTEGER), MAP(VARCHAR, INTEGER), ENUM('a','b').
	base := normalized
	if idx := strings.IndexByte(normalized, '('); idx >= 0 {
		base = strings.TrimSpace(normalized[:idx])
	}

	if kind, ok := m.byName[base]; ok {
		return Type{Kind: kind, Raw: raw}
	}
	return Type{Kind: KindUnknown, Raw: raw}
}

// ParseNumericDefault parses the default literal of a DECIMAL/NUMERIC
// column into an exact decimal value. It reports false when the column is
// not numeric, has no default, or the default is an expression rather than
// a literal.
func ParseNumericDefault(col ColumnRecord) (decimal.Decimal, bool) {
	if col.Type.Kind != KindDecimal || col.Default == nil {
		return decimal.Decimal{}, false
	}

	text := strings.TrimSpace(*col.Default)
	// The catalog may report defaults as CAST(1.50 AS DECIMAL(18,3)).
	if rest, ok := strings.CutPrefix(strings.ToUpper(text), "CAST("); ok {
		if idx := strings.Index(rest, " AS "); idx >= 0 {
			text = strings.TrimSpace(rest[:idx])
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
