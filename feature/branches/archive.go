package branches

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/VinniZP/lingx/core/catalog"
	"github.com/VinniZP/lingx/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrArchivesDisabled is returned by archive operations when no object
// storage client is configured.
var ErrArchivesDisabled = errors.New("snapshot archiving is not configured")

// SnapshotArchiver keeps recoverable JSON copies of a branch catalog in
// object storage. Before a destructive merge it uploads the target catalog;
// the read side lists, restores, and prunes those copies.
type SnapshotArchiver struct {
	Client   storage.Client
	Bucket   string
	Prefix   string
	BranchID string

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// ArchiveInfo describes one stored snapshot of a branch.
type ArchiveInfo struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive stores the snapshot under <prefix>/<branch>/<rfc3339>.json.
func (a *SnapshotArchiver) Archive(ctx context.Context, snapshot catalog.Catalog) error {
	data, err := json.MarshalIndent(snapshot.Map(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog snapshot: %w", err)
	}

	nowFn := a.now
	if nowFn == nil {
		nowFn = time.Now
	}
	objName := a.objectName(nowFn().UTC().Format(time.RFC3339) + ".json")

	_, err = a.Client.PutObject(ctx, a.Bucket, objName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", objName, err)
	}
	return nil
}

// List returns the branch's stored snapshots, newest first.
func (a *SnapshotArchiver) List(ctx context.Context) ([]ArchiveInfo, error) {
	prefix := a.objectName("")

	var archives []ArchiveInfo
	for obj := range a.Client.ListObjects(ctx, a.Bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archives for branch %s: %w", a.BranchID, obj.Err)
		}
		archives = append(archives, ArchiveInfo{
			Name:         strings.TrimPrefix(obj.Key, prefix),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	// RFC3339 UTC names sort chronologically, so name order is time order.
	sort.Slice(archives, func(i, j int) bool {
		return archives[i].Name > archives[j].Name
	})
	return archives, nil
}

// Load restores one stored snapshot as a catalog.
func (a *SnapshotArchiver) Load(ctx context.Context, name string) (catalog.Catalog, error) {
	if err := validArchiveName(name); err != nil {
		return catalog.Catalog{}, err
	}

	obj, err := a.Client.GetObject(ctx, a.Bucket, a.objectName(name), minio.GetObjectOptions{})
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("failed to fetch archive %s: %w", name, err)
	}
	defer obj.Close()

	var snapshot map[string]map[string]string
	if err := json.NewDecoder(obj).Decode(&snapshot); err != nil {
		return catalog.Catalog{}, fmt.Errorf("archive %s is not a catalog snapshot: %w", name, err)
	}
	return catalog.FromMap(snapshot), nil
}

// Remove deletes one stored snapshot.
func (a *SnapshotArchiver) Remove(ctx context.Context, name string) error {
	if err := validArchiveName(name); err != nil {
		return err
	}
	if err := a.Client.RemoveObject(ctx, a.Bucket, a.objectName(name), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove archive %s: %w", name, err)
	}
	return nil
}

// Prune deletes all snapshots beyond the newest keep, returning how many
// were removed.
func (a *SnapshotArchiver) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	archives, err := a.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(archives) <= keep {
		return 0, nil
	}
	stale := archives[keep:]

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, info := range stale {
		objectsCh <- minio.ObjectInfo{Key: a.objectName(info.Name)}
	}
	close(objectsCh)

	for rmErr := range a.Client.RemoveObjects(ctx, a.Bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			return 0, fmt.Errorf("failed to prune archive %s: %w", rmErr.ObjectName, rmErr.Err)
		}
	}
	return len(stale), nil
}

func (a *SnapshotArchiver) objectName(name string) string {
	return fmt.Sprintf("%s/%s/%s", a.Prefix, a.BranchID, name)
}

func validArchiveName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid archive name %q", name)
	}
	return nil
}
