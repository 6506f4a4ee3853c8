package catalog

import (
	"github.com/scottrigby/patch-yamls/pkg/config"
)

const (
	jobAPIVersion = "batch/v1"
	pvcAPIVersion = "v1"
	jobKind       = "Job"
	pvcKind       = "PersistentVolumeClaim"
)

// CloudOpImage is the backup/recovery tool image pushed to the operator's registry.
var CloudOpImage = Template("{DOCKER_REGISTRY}/{DOCKER_REPO}/cloud-op:latest", config.DockerRegistry, config.DockerRepo)

// BackupCommand is the shell command run by the backup Job: announce the
// start, run cloud-op against the mounted node data, then keep the pod alive
// so the backup volume can be inspected.
var BackupCommand = Template(
	"echo \"backup start\n\" && cloud-op {ARGS} -c ./config/config.toml -n ./source -b ../backup && sleep infinity",
	config.Args,
)

func dataDir(key string) Derivation {
	return Template("datadir-{"+key+"}", key)
}

func backupPVC() File {
	return File{
		Name:       "backup_pvc",
		Path:       "backup_pvc.yaml",
		APIVersion: pvcAPIVersion,
		Kind:       pvcKind,
		Assignments: []Assignment{
			Assign("spec.storageClassName", Direct(config.ShareSC)),
		},
	}
}

// backupJobAssignments are shared by both backup_job variants.
func backupJobAssignments() []Assignment {
	return []Assignment{
		Assign("spec.template.spec.containers[0].image", CloudOpImage),
		Assign("spec.template.spec.containers[0].volumeMounts[1].name", dataDir(config.BackupNode)),
		Assign("spec.template.spec.volumes[1].name", dataDir(config.BackupNode)),
		Assign("spec.template.spec.volumes[1].persistentVolumeClaim.claimName", dataDir(config.BackupNode)),
		Assign("spec.template.spec.volumes[2].configMap.name", Template("{STS_NAME}-config", config.STSName)),
	}
}

// Update prepares a node recovery: the shared backup volume, the job that
// backs up an existing node, and the volume and job for the new node.
var Update = register(Set{
	Name:        "update",
	Description: "node recovery manifests (backup volume, backup job, new node volume, recover job)",
	Dir:         "./yamls",
	Files: []File{
		backupPVC(),
		{
			Name:        "backup_job",
			Path:        "backup_job.yaml",
			APIVersion:  jobAPIVersion,
			Kind:        jobKind,
			Assignments: backupJobAssignments(),
		},
		{
			Name:       "node_pvc",
			Path:       "node_pvc.yaml",
			APIVersion: pvcAPIVersion,
			Kind:       pvcKind,
			Assignments: []Assignment{
				Assign("metadata.name", dataDir(config.NewNode)),
				Assign("spec.storageClassName", Direct(config.NewNodeSC)),
			},
		},
		{
			Name:       "recover_job",
			Path:       "recover_job.yaml",
			APIVersion: jobAPIVersion,
			Kind:       jobKind,
			Assignments: []Assignment{
				Assign("spec.template.spec.containers[0].volumeMounts[0].name", dataDir(config.NewNode)),
				Assign("spec.template.spec.volumes[1].name", dataDir(config.NewNode)),
				Assign("spec.template.spec.volumes[1].persistentVolumeClaim.claimName", dataDir(config.NewNode)),
			},
		},
	},
})

// Backup prepares a standalone backup run of an existing node.
var Backup = register(Set{
	Name:        "backup",
	Description: "standalone backup manifests (backup volume, backup job running cloud-op)",
	Dir:         "./yamls/backup",
	Files: []File{
		backupPVC(),
		{
			Name:       "backup_job",
			Path:       "backup_job.yaml",
			APIVersion: jobAPIVersion,
			Kind:       jobKind,
			Assignments: append([]Assignment{
				Assign("spec.template.spec.containers[0].args[0]", BackupCommand),
			}, backupJobAssignments()...),
		},
	},
})
