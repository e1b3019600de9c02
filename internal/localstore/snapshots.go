package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Api persists store snapshots on local disk, one JSON file per user per
// store, e.g. <root>/<userID>/workout.json. Writes go through a temp file
// and a rename, so a crash mid-write never leaves a torn snapshot behind.
type Api struct {
	rootPath string
}

func NewApi(rootPath string) (*Api, error) {
	if rootPath == "" {
		return nil, fmt.Errorf("snapshots root path empty")
	}
	if err := os.MkdirAll(rootPath, 0755); err != nil {
		return nil, fmt.Errorf("create snapshots root dir: %w", err)
	}
	return &Api{
		rootPath: rootPath,
	}, nil
}

func (a *Api) snapshotPath(userID, storeName string) string {
	return filepath.Join(a.rootPath, userID, storeName+".json")
}

// Save serializes the snapshot and writes it to disk.
func (a *Api) Save(userID, storeName string, snapshot any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", storeName, err)
	}
	return a.SaveRaw(userID, storeName, data)
}

func (a *Api) SaveRaw(userID, storeName string, data []byte) error {
	userDir := filepath.Join(a.rootPath, userID)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return fmt.Errorf("create user snapshots dir: %w", err)
	}

	finalPath := a.snapshotPath(userID, storeName)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}

	return nil
}

// Load reads the snapshot into the given value. Returns false when no
// snapshot exists yet for this user and store.
func (a *Api) Load(userID, storeName string, into any) (bool, error) {
	data, err := os.ReadFile(a.snapshotPath(userID, storeName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s snapshot: %w", storeName, err)
	}

	if err := json.Unmarshal(data, into); err != nil {
		return false, fmt.Errorf("unmarshal %s snapshot: %w", storeName, err)
	}

	return true, nil
}

// Delete removes the persisted snapshot, used on full data reset.
func (a *Api) Delete(userID, storeName string) error {
	err := os.Remove(a.snapshotPath(userID, storeName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s snapshot: %w", storeName, err)
	}
	if err == nil {
		log.Debugf("snapshot removed: user [%s] store [%s]", userID, storeName)
	}
	return nil
}
