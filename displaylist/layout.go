package displaylist

import "hash/crc32"

// rawChunk is a chunk ready for layout: index entry fields plus the body
// bytes. Both the Recorder and patch application assemble buffers from
// this form, so a patched buffer is laid out exactly like a recorded one.
type rawChunk struct {
	id     uint32
	kind   uint16
	flags  uint16
	bounds [4]float32
	body   []byte
}

// assemble lays out header, chunk index, manifest, chunk bodies, and data
// pool contiguously and back-fills sizes, offsets, and checksum.
func assemble(chunks []rawChunk, manifest []ManifestEntry, pool []byte) []byte {
	indexOff := headerSize
	manifestOff := indexOff + chunkEntrySize*len(chunks)
	bodiesOff := manifestOff + manifestSize*len(manifest)
	bodyTotal := 0
	for i := range chunks {
		bodyTotal += len(chunks[i].body)
	}
	poolOff := alignUp(bodiesOff+bodyTotal, recordAlign)
	total := poolOff + len(pool)

	buf := make([]byte, total)
	copy(buf[offMagic:], magic)
	putU16(buf, offVersion, formatVersion)
	putU32(buf, offHeaderSize, headerSize)
	putU64(buf, offTotalSize, uint64(total))
	putU32(buf, offChunkCount, uint32(len(chunks)))
	putU32(buf, offManifestCount, uint32(len(manifest)))
	putU64(buf, offChunkIndex, uint64(indexOff))
	putU64(buf, offDataPool, uint64(poolOff))

	bodyAt := bodiesOff
	for i := range chunks {
		c := &chunks[i]
		ent := buf[indexOff+chunkEntrySize*i:]
		putU32(ent, entOffID, c.id)
		putU16(ent, entOffKind, c.kind)
		putU16(ent, entOffFlags, c.flags)
		for j, v := range c.bounds {
			putF32(ent, entOffBounds+4*j, v)
		}
		putU32(ent, entOffStart, uint32(bodyAt))
		putU32(ent, entOffSize, uint32(len(c.body)))
		copy(buf[bodyAt:], c.body)
		bodyAt += len(c.body)
	}

	for i, e := range manifest {
		ent := buf[manifestOff+manifestSize*i:]
		putU32(ent, manOffID, e.ID)
		putU16(ent, manOffKind, uint16(e.Kind))
		putU16(ent, manOffFlags, e.Flags)
		putU32(ent, manOffLength, e.Length)
		putU32(ent, manOffChecksum, e.Checksum)
	}

	copy(buf[poolOff:], pool)
	putU32(buf, offChecksum, crc32.ChecksumIEEE(buf[headerSize:]))
	return buf
}
