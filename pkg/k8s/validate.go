package k8s

import (
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/scottrigby/patch-yamls/pkg/transform"
)

// ValidateName checks s is usable as an object name (DNS-1123 subdomain).
func ValidateName(field, s string) error {
	if msgs := validation.IsDNS1123Subdomain(s); len(msgs) > 0 {
		return fmt.Errorf("%s %q is not a valid name: %s", field, s, strings.Join(msgs, "; "))
	}
	return nil
}

// ValidateVolumeName checks s is usable as a pod volume name (DNS-1123 label).
func ValidateVolumeName(field, s string) error {
	if msgs := validation.IsDNS1123Label(s); len(msgs) > 0 {
		return fmt.Errorf("%s %q is not a valid volume name: %s", field, s, strings.Join(msgs, "; "))
	}
	return nil
}

// ValidateImage checks ref parses as a fully qualified image reference.
func ValidateImage(field, ref string) error {
	if _, err := name.ParseReference(ref, name.StrictValidation); err != nil {
		return fmt.Errorf("%s %q is not a valid image reference: %w", field, ref, err)
	}
	return nil
}

// ValidateObject runs the name and image checks that apply to the patched
// fields of a decoded Job or PersistentVolumeClaim.
func ValidateObject(obj interface{}) error {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	switch o := obj.(type) {
	case *corev1.PersistentVolumeClaim:
		add(ValidateName("metadata.name", o.Name))
		if sc := o.Spec.StorageClassName; sc != nil && *sc != "" {
			add(ValidateName("spec.storageClassName", *sc))
		}
	case *batchv1.Job:
		add(ValidateName("metadata.name", o.Name))
		pod := o.Spec.Template.Spec
		for i, c := range pod.Containers {
			add(ValidateImage(fmt.Sprintf("spec.template.spec.containers[%d].image", i), c.Image))
			for j, m := range c.VolumeMounts {
				add(ValidateVolumeName(fmt.Sprintf("spec.template.spec.containers[%d].volumeMounts[%d].name", i, j), m.Name))
			}
		}
		for i, v := range pod.Volumes {
			add(ValidateVolumeName(fmt.Sprintf("spec.template.spec.volumes[%d].name", i), v.Name))
			if v.PersistentVolumeClaim != nil {
				add(ValidateName(fmt.Sprintf("spec.template.spec.volumes[%d].persistentVolumeClaim.claimName", i), v.PersistentVolumeClaim.ClaimName))
			}
			if v.ConfigMap != nil {
				add(ValidateName(fmt.Sprintf("spec.template.spec.volumes[%d].configMap.name", i), v.ConfigMap.Name))
			}
		}
	default:
		return fmt.Errorf("no validation for %T", obj)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid manifest:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ValidateField checks a value about to be written at p, choosing the rule
// from the field name. Fields without a rule (e.g. container args) pass.
func ValidateField(p transform.Path, value string) error {
	if len(p) == 0 || p[len(p)-1].IsIndex {
		return nil
	}
	field := p.String()
	switch key := p[len(p)-1].Key; {
	case key == "image":
		return ValidateImage(field, value)
	case key == "name" && inList(p, "volumes", "volumeMounts"):
		return ValidateVolumeName(field, value)
	case key == "name", key == "claimName", key == "storageClassName":
		return ValidateName(field, value)
	}
	return nil
}

// inList reports whether p ends in <list>[i].<key> for one of lists.
func inList(p transform.Path, lists ...string) bool {
	if len(p) < 3 || !p[len(p)-2].IsIndex {
		return false
	}
	parent := p[len(p)-3].Key
	for _, l := range lists {
		if parent == l {
			return true
		}
	}
	return false
}
