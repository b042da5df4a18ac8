package palette

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 0x0300

// ReadRIFF loads every palette chunk of a Microsoft RIFF PAL stream and
// concatenates them in file order.
func ReadRIFF(r io.Reader) (Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return readChunks(rd, string(formType[:]))
}

func readChunks(r *riff.Reader, ident string) (Palette, error) {
	var res Palette

	for n := 0; ; n++ {
		id, size, data, err := r.Next()
		if err == io.EOF {
			return res, nil
		} else if err != nil {
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, n, err)
		}

		switch id {
		case riff.LIST:
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, n, lerr)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, n, string(listType[:]))
			}

			sub, lerr := readChunks(list, fmt.Sprintf("%s%d.%s", ident, n, listType[:]))
			res = append(res, sub...)
			if lerr != nil {
				return res, lerr
			}
		case dataType:
			pal, perr := readChunk(data, fmt.Sprintf("%s%d", ident, n))
			if perr != nil {
				return res, perr
			}
			res = append(res, pal...)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, n, id)
		}
	}
}

func readChunk(r io.Reader, ident string) (Palette, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(head[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, ver)
	}

	count := int(binary.LittleEndian.Uint16(head[2:]))
	res := make(Palette, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return res[:i], fmt.Errorf("could not read colour %d/%d from chunk %s: %w", i, count, ident, err)
		}
		res[i] = RGB{R: entry[0], G: entry[1], B: entry[2]}
	}

	return res, nil
}

// WriteRIFF stores p as a single-chunk RIFF PAL document and reports the
// number of bytes written.
func WriteRIFF(w io.Writer, p Palette) (int64, error) {
	if len(p) > 0xFFFF {
		return 0, fmt.Errorf("too many colours for a PAL chunk: %d", len(p))
	}

	chunkSize := 4 + len(p)*4        // palVersion + palNumEntries + 4 bytes/colour
	docSize := 4 + 4 + 4 + chunkSize // form type + chunk id + chunk size + chunk
	buf := make([]byte, 0, 8+docSize)

	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(docSize))
	buf = append(buf, palType[:]...)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunkSize))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(p)))
	for _, c := range p {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("could not save palette: %w", err)
	} else if n != len(buf) {
		return int64(n), fmt.Errorf("could not save palette: wrote only %d/%d bytes", n, len(buf))
	}
	return int64(n), nil
}
