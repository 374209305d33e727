package model

type BlockHashResult struct {
	Hash string // Hex encoded hash of the node's current best block, empty on failure
	Err  error  // Reason the hash could not be fetched
}

// OK returns true if the hash was fetched.
func (r BlockHashResult) OK() bool {
	return r.Err == nil && len(r.Hash) > 0
}
