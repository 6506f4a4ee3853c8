package k8s

import (
	"fmt"
	"reflect"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

// TypeMetaOf reads apiVersion and kind from a manifest.
func TypeMetaOf(data []byte) (metav1.TypeMeta, error) {
	var tm metav1.TypeMeta
	if err := yaml.Unmarshal(data, &tm); err != nil {
		return tm, fmt.Errorf("reading apiVersion/kind: %w", err)
	}
	return tm, nil
}

// DecodeStrict decodes data into a new value of the Go type registered for
// the manifest's apiVersion/kind. Unknown or duplicate fields are errors.
// When want is non-empty the manifest must declare that apiVersion/kind.
func DecodeStrict(data []byte, wantAPIVersion, wantKind string) (interface{}, error) {
	tm, err := TypeMetaOf(data)
	if err != nil {
		return nil, err
	}
	if wantKind != "" && (tm.APIVersion != wantAPIVersion || tm.Kind != wantKind) {
		return nil, fmt.Errorf("manifest is %s %s, expected %s %s", tm.APIVersion, tm.Kind, wantAPIVersion, wantKind)
	}

	t, err := MustResolve(tm.APIVersion, tm.Kind)
	if err != nil {
		return nil, err
	}

	obj := reflect.New(deref(t)).Interface()
	if err := yaml.UnmarshalStrict(data, obj); err != nil {
		return nil, fmt.Errorf("decoding %s %s: %w", tm.APIVersion, tm.Kind, err)
	}
	return obj, nil
}
