package k8s

import (
	"fmt"
	"reflect"
	"strings"

	"k8s.io/client-go/kubernetes/scheme"
)

// kubeTypeRegistry maps "apiVersion/kind" to the Go type registered for it in
// k8s.io/client-go/kubernetes/scheme, which covers every built-in group.
var kubeTypeRegistry map[string]reflect.Type

func init() {
	kubeTypeRegistry = make(map[string]reflect.Type)

	for gvk, typ := range scheme.Scheme.AllKnownTypes() {
		// Core API (empty group): apiVersion = "v1"
		apiVersion := gvk.Version
		if gvk.Group != "" {
			apiVersion = gvk.Group + "/" + gvk.Version
		}
		kubeTypeRegistry[apiVersion+"/"+gvk.Kind] = typ
	}
}

// ResolveKubeAPIType maps apiVersion + kind to a Go reflect.Type.
// Returns nil if the type is not a built-in Kubernetes type.
func ResolveKubeAPIType(apiVersion, kind string) reflect.Type {
	return kubeTypeRegistry[apiVersion+"/"+kind]
}

// MustResolve is ResolveKubeAPIType returning an error for unknown types.
func MustResolve(apiVersion, kind string) (reflect.Type, error) {
	t := ResolveKubeAPIType(apiVersion, kind)
	if t == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownKind, apiVersion, kind)
	}
	return t, nil
}

// FormatTypeName returns a short type name such as "batchv1.Job".
func FormatTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	pkgPath := t.PkgPath()
	typeName := t.Name()
	if typeName == "" {
		return t.String()
	}
	if strings.Contains(pkgPath, "k8s.io/api/") {
		shortPkg := strings.TrimPrefix(pkgPath, "k8s.io/api/")
		shortPkg = strings.ReplaceAll(shortPkg, "/", "")
		return shortPkg + "." + typeName
	}
	if strings.HasSuffix(pkgPath, "apimachinery/pkg/apis/meta/v1") {
		return "metav1." + typeName
	}
	return typeName
}
