package icons

import (
	"encoding/binary"
)

type testChunk struct {
	tag  string
	data []byte
}

// buildICNS builds an ICNS container with a correct declared length.
func buildICNS(chunks ...testChunk) []byte {
	buf := make([]byte, 8)
	copy(buf, "icns")
	for _, c := range chunks {
		header := make([]byte, 8)
		copy(header, c.tag)
		binary.BigEndian.PutUint32(header[4:], uint32(8+len(c.data)))
		buf = append(buf, header...)
		buf = append(buf, c.data...)
	}
	binary.BigEndian.PutUint32(buf[4:], uint32(len(buf)))
	return buf
}

type testEntry struct {
	width, height uint8
	data          []byte
}

// buildICO builds an ICO container with the image data placed after the
// directory, in entry order.
func buildICO(entries ...testEntry) []byte {
	buf := make([]byte, 6+16*len(entries))
	binary.LittleEndian.PutUint16(buf[0:], 0)
	binary.LittleEndian.PutUint16(buf[2:], 1)
	binary.LittleEndian.PutUint16(buf[4:], uint16(len(entries)))

	for i, e := range entries {
		record := buf[6+i*16 : 6+(i+1)*16]
		record[0] = e.width
		record[1] = e.height
		binary.LittleEndian.PutUint16(record[4:], 1)
		binary.LittleEndian.PutUint16(record[6:], 32)
		binary.LittleEndian.PutUint32(record[8:], uint32(len(e.data)))
		binary.LittleEndian.PutUint32(record[12:], uint32(len(buf)))
		buf = append(buf, e.data...)
	}
	return buf
}

func payload(tag string, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = tag[i%len(tag)]
	}
	return data
}
