package k8s

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"k8s.io/apimachinery/pkg/util/strategicpatch"

	"github.com/scottrigby/patch-yamls/pkg/transform"
)

var (
	ErrUnknownKind  = errors.New("unknown apiVersion/kind")
	ErrUnknownField = errors.New("field not in schema")
	ErrNotScalar    = errors.New("field is not a scalar")
)

// FieldInfo describes the schema field a path resolves to
type FieldInfo struct {
	Path      string       // the checked path, e.g. spec.template.spec.volumes[1].name
	FieldType reflect.Type // Go type at the end of the path, pointers removed
	// Lists maps each list segment crossed by the path to its strategic merge
	// key ("" when the list has none), e.g. "spec.template.spec.volumes" -> "name".
	Lists map[string]string
}

// TypeName returns the short name of the resolved field type.
func (f *FieldInfo) TypeName() string {
	return FormatTypeName(f.FieldType)
}

// NavigateFieldSchema walks rootType by JSON tag along p. Index segments step
// into the element type of a slice. Struct fields reached through inline
// embedding are found as if declared directly.
func NavigateFieldSchema(rootType reflect.Type, p transform.Path) (*FieldInfo, error) {
	if rootType == nil {
		return nil, fmt.Errorf("nil root type")
	}

	info := &FieldInfo{Path: p.String(), Lists: map[string]string{}}
	currentType := deref(rootType)
	var parentType reflect.Type
	var walked []string

	for _, seg := range p {
		if seg.IsIndex {
			if currentType.Kind() != reflect.Slice {
				return nil, fmt.Errorf("%w: %s: %s is not a list", ErrUnknownField, p, strings.Join(walked, "."))
			}
			listPath := strings.Join(walked, ".")
			if _, seen := info.Lists[listPath]; !seen {
				info.Lists[listPath] = GetMergeKeyFromStrategicPatch(parentType, walked[len(walked)-1])
			}
			currentType = deref(currentType.Elem())
			continue
		}

		if currentType.Kind() != reflect.Struct {
			return nil, fmt.Errorf("%w: %s: expected struct at %q, got %s", ErrUnknownField, p, strings.Join(walked, "."), currentType.Kind())
		}

		field, found := FindFieldByJSONTag(currentType, seg.Key)
		if !found {
			return nil, fmt.Errorf("%w: %s: %q not found in %s", ErrUnknownField, p, seg.Key, FormatTypeName(currentType))
		}
		parentType = currentType
		currentType = deref(field.Type)
		walked = append(walked, seg.Key)
	}

	info.FieldType = currentType
	return info, nil
}

// CheckPath resolves apiVersion/kind and verifies p ends on a scalar field.
func CheckPath(apiVersion, kind string, p transform.Path) (*FieldInfo, error) {
	rootType, err := MustResolve(apiVersion, kind)
	if err != nil {
		return nil, err
	}
	info, err := NavigateFieldSchema(rootType, p)
	if err != nil {
		return nil, err
	}
	switch info.FieldType.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Map:
		return info, fmt.Errorf("%w: %s is %s", ErrNotScalar, p, info.TypeName())
	}
	return info, nil
}

// FindFieldByJSONTag finds a struct field by its json tag name, searching
// inline embedded structs.
func FindFieldByJSONTag(structType reflect.Type, jsonName string) (reflect.StructField, bool) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" {
			continue
		}

		// "name,omitempty", "name" or ",inline"
		tagParts := strings.Split(tag, ",")
		tagName := tagParts[0]

		if tagName == jsonName {
			return field, true
		}

		if tagName == "" && len(tagParts) > 1 && tagParts[1] == "inline" {
			embeddedType := deref(field.Type)
			if embeddedType.Kind() == reflect.Struct {
				if f, ok := FindFieldByJSONTag(embeddedType, jsonName); ok {
					return f, true
				}
			}
		}
	}
	return reflect.StructField{}, false
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// GetMergeKeyFromStrategicPatch returns the patchMergeKey of the list field
// fieldName in structType, or "" when the list is atomic or unknown.
func GetMergeKeyFromStrategicPatch(structType reflect.Type, fieldName string) string {
	if structType == nil || deref(structType).Kind() != reflect.Struct {
		return ""
	}
	patchMeta, err := strategicpatch.NewPatchMetaFromStruct(reflect.New(deref(structType)).Elem().Interface())
	if err != nil {
		return ""
	}
	_, pm, err := patchMeta.LookupPatchMetadataForSlice(fieldName)
	if err != nil {
		return ""
	}
	return pm.GetPatchMergeKey()
}
