package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottrigby/patch-yamls/pkg/config"
	"github.com/scottrigby/patch-yamls/pkg/transform"
)

func edits(t *testing.T, set Set, file string, vals config.Values) map[string]transform.Value {
	t.Helper()
	f, ok := set.File(file)
	require.True(t, ok, "file %s not in set %s", file, set.Name)
	out := make(map[string]transform.Value)
	for _, e := range f.Edits(vals) {
		out[e.Path.String()] = e.Value
	}
	return out
}

func TestUpdateSet(t *testing.T) {
	t.Parallel()

	vals := config.New(map[string]string{
		config.DockerRegistry: "registry.example.com",
		config.DockerRepo:     "team",
		config.ShareSC:        "nfs-client",
		config.NewNodeSC:      "local-path",
		config.BackupNode:     "node3",
		config.NewNode:        "node5",
		config.STSName:        "mydb",
	})

	assert.Equal(t, map[string]transform.Value{
		"spec.storageClassName": transform.String("nfs-client"),
	}, edits(t, Update, "backup_pvc", vals))

	assert.Equal(t, map[string]transform.Value{
		"spec.template.spec.containers[0].image":                        transform.String("registry.example.com/team/cloud-op:latest"),
		"spec.template.spec.containers[0].volumeMounts[1].name":         transform.String("datadir-node3"),
		"spec.template.spec.volumes[1].name":                            transform.String("datadir-node3"),
		"spec.template.spec.volumes[1].persistentVolumeClaim.claimName": transform.String("datadir-node3"),
		"spec.template.spec.volumes[2].configMap.name":                  transform.String("mydb-config"),
	}, edits(t, Update, "backup_job", vals))

	assert.Equal(t, map[string]transform.Value{
		"metadata.name":         transform.String("datadir-node5"),
		"spec.storageClassName": transform.String("local-path"),
	}, edits(t, Update, "node_pvc", vals))

	assert.Equal(t, map[string]transform.Value{
		"spec.template.spec.containers[0].volumeMounts[0].name":         transform.String("datadir-node5"),
		"spec.template.spec.volumes[1].name":                            transform.String("datadir-node5"),
		"spec.template.spec.volumes[1].persistentVolumeClaim.claimName": transform.String("datadir-node5"),
	}, edits(t, Update, "recover_job", vals))
}

func TestUpdateSetOrder(t *testing.T) {
	t.Parallel()

	var names []string
	for _, f := range Update.Files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"backup_pvc", "backup_job", "node_pvc", "recover_job"}, names)
	assert.Equal(t, "./yamls", Update.Dir)
}

func TestBackupSet(t *testing.T) {
	t.Parallel()

	vals := config.New(map[string]string{
		config.DockerRegistry: "registry.example.com",
		config.DockerRepo:     "team",
		config.ShareSC:        "nfs-client",
		config.BackupNode:     "node3",
		config.STSName:        "mydb",
		config.Args:           "backup 100",
	})

	got := edits(t, Backup, "backup_job", vals)
	assert.Equal(t,
		transform.String("echo \"backup start\n\" && cloud-op backup 100 -c ./config/config.toml -n ./source -b ../backup && sleep infinity"),
		got["spec.template.spec.containers[0].args[0]"])
	assert.Equal(t, transform.String("registry.example.com/team/cloud-op:latest"), got["spec.template.spec.containers[0].image"])
	assert.Equal(t, transform.String("mydb-config"), got["spec.template.spec.volumes[2].configMap.name"])
	assert.Len(t, got, 6)

	assert.Equal(t, map[string]transform.Value{
		"spec.storageClassName": transform.String("nfs-client"),
	}, edits(t, Backup, "backup_pvc", vals))
	assert.Equal(t, "./yamls/backup", Backup.Dir)
}

func TestUnsetValues(t *testing.T) {
	t.Parallel()

	vals := config.New(nil)

	pvc := edits(t, Update, "node_pvc", vals)
	assert.Equal(t, transform.Null(), pvc["spec.storageClassName"])
	assert.Equal(t, transform.String("datadir-"), pvc["metadata.name"])

	job := edits(t, Update, "backup_job", vals)
	assert.Equal(t, transform.String("//cloud-op:latest"), job["spec.template.spec.containers[0].image"])
	assert.Equal(t, transform.String("-config"), job["spec.template.spec.volumes[2].configMap.name"])
}

func TestKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		config.BackupNode, config.DockerRegistry, config.DockerRepo,
		config.NewNode, config.NewNodeSC, config.ShareSC, config.STSName,
	}, Update.Keys())
	assert.Equal(t, []string{
		config.Args, config.BackupNode, config.DockerRegistry, config.DockerRepo,
		config.ShareSC, config.STSName,
	}, Backup.Keys())
}

func TestLookup(t *testing.T) {
	t.Parallel()

	s, err := Lookup("backup")
	require.NoError(t, err)
	assert.Equal(t, Backup.Name, s.Name)

	_, err = Lookup("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup, update")
	assert.Equal(t, []string{"backup", "update"}, Names())
	assert.Len(t, All(), 2)
}
