package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const checkpointFilename = "checkpoint.json"

// CheckpointStore persists the last processed listing index per
// (subreddit, sort, time filter) so an interrupted run resumes where it
// stopped instead of refetching everything.
type CheckpointStore struct {
	path string
}

func NewCheckpointStore(dataDir string) *CheckpointStore {
	return &CheckpointStore{path: filepath.Join(dataDir, checkpointFilename)}
}

type checkpointEntry struct {
	LastProcessedIndex int `json:"last_processed_index"`
}

func checkpointKey(subreddit, sort, timeFilter string) string {
	return fmt.Sprintf("%s_%s_%s", subreddit, sort, timeFilter)
}

// Load returns the last processed index for the given listing, or 0 when no
// checkpoint exists yet.
func (cs *CheckpointStore) Load(subreddit, sort, timeFilter string) (int, error) {
	checkpoints, err := cs.read()
	if err != nil {
		return 0, err
	}
	return checkpoints[checkpointKey(subreddit, sort, timeFilter)].LastProcessedIndex, nil
}

// Save records index as the last processed position for the given listing,
// preserving entries for other listings in the same file.
func (cs *CheckpointStore) Save(subreddit, sort, timeFilter string, index int) error {
	checkpoints, err := cs.read()
	if err != nil {
		return err
	}

	checkpoints[checkpointKey(subreddit, sort, timeFilter)] = checkpointEntry{LastProcessedIndex: index}

	data, err := json.Marshal(checkpoints)
	if err != nil {
		return fmt.Errorf("[Checkpoint] Failed to encode checkpoints: %w", err)
	}
	if err := os.WriteFile(cs.path, data, 0o644); err != nil {
		return fmt.Errorf("[Checkpoint] Failed to write %s: %w", cs.path, err)
	}
	return nil
}

func (cs *CheckpointStore) read() (map[string]checkpointEntry, error) {
	data, err := os.ReadFile(cs.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]checkpointEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[Checkpoint] Failed to read %s: %w", cs.path, err)
	}

	checkpoints := map[string]checkpointEntry{}
	if err := json.Unmarshal(data, &checkpoints); err != nil {
		return nil, fmt.Errorf("[Checkpoint] Failed to decode %s: %w", cs.path, err)
	}
	return checkpoints, nil
}
