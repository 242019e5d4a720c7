package e2s

// esliChunk returns the esli chunk nested in the korg chunk of root.
func esliChunk(root *Chunk) *Chunk {
	korg := root.Find(CIDKorg)
	if !korg.IsList() {
		return nil
	}

	return korg.Find(CIDEsli)
}

// insertEsliChunk adds an esli chunk holding payload to root, creating the
// korg chunk first when needed. Declared sizes of korg and root grow by the
// footprint of what was inserted.
func insertEsliChunk(root *Chunk, payload []byte) (*Chunk, error) {
	korg := root.Find(CIDKorg)
	if !korg.IsList() {
		korg = NewListChunk(CIDKorg)
		if err := root.AddChunk(korg); err != nil {
			return nil, err
		}
	}

	esli := NewChunk(CIDEsli, payload)
	if err := korg.AddChunk(esli, root); err != nil {
		return nil, err
	}

	return esli, nil
}
