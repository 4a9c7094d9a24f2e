package catalog

// NewWithDigest returns an empty catalog that indexes tiles with digest.
func NewWithDigest(size int, digest func([]byte) [16]byte) *Catalog {
	c := New(size)
	c.digest = digest
	return c
}
