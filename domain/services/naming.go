package services

import (
	"strings"
	"unicode"

	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// Identifier turns a node label into a type identifier: non-alphanumerics
// are stripped and each word starts upper-case. A label with nothing usable
// falls back to "Node" plus the node id, and a leading digit gets a "T" prefix.
func Identifier(node entities.Node) string {
	if ident := sanitizeIdentifier(node.Label); ident != "" {
		return ident
	}
	return "Node" + sanitizeIdentifier(node.ID.String())
}

func sanitizeIdentifier(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		b.WriteRune(r)
	}
	ident := b.String()
	if ident != "" && unicode.IsDigit([]rune(ident)[0]) {
		ident = "T" + ident
	}
	return ident
}

// collisionKey is a label reduced to its letters and digits with only the
// first letter capitalized, so "blog post" and "blogpost" share a key even
// though their identifiers differ.
func collisionKey(node entities.Node) string {
	var b strings.Builder
	for _, r := range node.Label {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	runes := []rune(b.String())
	if len(runes) == 0 {
		return Identifier(node)
	}
	runes[0] = unicode.ToUpper(runes[0])
	if unicode.IsDigit(runes[0]) {
		return "T" + string(runes)
	}
	return string(runes)
}

// TableName is the plural snake_case storage name for an identifier, e.g. Users -> users, Person -> people
func TableName(ident string) string {
	return strcase.ToSnake(plural(ident))
}

// ForeignKeyColumn names the reference column pointing at ident's table, e.g. Users -> user_id
func ForeignKeyColumn(ident string) string {
	return strcase.ToSnake(inflection.Singular(ident)) + "_id"
}

// ForeignKeyField is the type-declaration counterpart of ForeignKeyColumn, e.g. Users -> userId
func ForeignKeyField(ident string) string {
	return strcase.ToLowerCamel(inflection.Singular(ident)) + "Id"
}

// ResourcePath is the REST collection path for an identifier, e.g. UserProfile -> /api/user-profiles
func ResourcePath(ident string) string {
	return "/api/" + strcase.ToKebab(plural(ident))
}

// plural singularizes first so an already plural irregular stays put (People -> People, not Peoples)
func plural(ident string) string {
	return inflection.Plural(inflection.Singular(ident))
}
