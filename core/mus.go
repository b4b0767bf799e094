package core

import (
	"errors"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types stored in Badger and in cache
// snapshots. Hand-assembled from mus-go primitives, following the
// serializer-value convention (Marshal/Unmarshal/Size/Skip).

var (
	DocumentMUS  = documentMUS{}
	PageStateMUS = pageStateMUS{}
	VectorMUS    = vectorMUS{}

	timeMUS     = timeMicroMUS{}
	metadataMUS = stringMapMUS{}
	stringsMUS  = stringSliceMUS{}
)

// ErrNegativeLength indicates a corrupt length prefix in serialized data.
var ErrNegativeLength = errors.New("negative length prefix")

type documentMUS struct{}

func (documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += metadataMUS.Marshal(v.Metadata, bs[n:])
	n += ord.String.Marshal(string(v.Fingerprint), bs[n:])
	n += VectorMUS.Marshal(v.Vector, bs[n:])
	n += timeMUS.Marshal(v.FetchedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var fp string
	if fp, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	v.Fingerprint = Fingerprint(fp)
	n += n1
	if v.Vector, n1, err = VectorMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.FetchedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (documentMUS) Size(v Document) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Text)
	size += metadataMUS.Size(v.Metadata)
	size += ord.String.Size(string(v.Fingerprint))
	size += VectorMUS.Size(v.Vector)
	size += timeMUS.Size(v.FetchedAt)
	size += timeMUS.Size(v.UpdatedAt)
	return size
}

type pageStateMUS struct{}

func (pageStateMUS) Marshal(v PageState, bs []byte) (n int) {
	n = ord.String.Marshal(v.URL, bs)
	n += ord.String.Marshal(string(v.Fingerprint), bs[n:])
	n += stringsMUS.Marshal(v.DocumentIDs, bs[n:])
	n += timeMUS.Marshal(v.FetchedAt, bs[n:])
	return n
}

func (pageStateMUS) Unmarshal(bs []byte) (v PageState, n int, err error) {
	var n1 int
	if v.URL, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	var fp string
	if fp, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	v.Fingerprint = Fingerprint(fp)
	n += n1
	if v.DocumentIDs, n1, err = stringsMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.FetchedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (pageStateMUS) Size(v PageState) (size int) {
	size = ord.String.Size(v.URL)
	size += ord.String.Size(string(v.Fingerprint))
	size += stringsMUS.Size(v.DocumentIDs)
	size += timeMUS.Size(v.FetchedAt)
	return size
}

type vectorMUS struct{}

func (vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	if length == 0 {
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
	}
	return
}

func (vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

type stringSliceMUS struct{}

func (stringSliceMUS) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func (stringSliceMUS) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	if length == 0 {
		return
	}
	v = make([]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
	}
	return
}

func (stringSliceMUS) Size(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

type stringMapMUS struct{}

func (stringMapMUS) Marshal(v map[string]string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, k := range sortedKeys(v) {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(v[k], bs[n:])
	}
	return n
}

func (stringMapMUS) Unmarshal(bs []byte) (v map[string]string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	if length == 0 {
		return
	}
	v = make(map[string]string, length)
	var (
		n1   int
		k, s string
	)
	for i := 0; i < length; i++ {
		if k, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		if s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		v[k] = s
	}
	return
}

func (stringMapMUS) Size(v map[string]string) (size int) {
	size = varint.Int.Size(len(v))
	for k, s := range v {
		size += ord.String.Size(k)
		size += ord.String.Size(s)
	}
	return size
}

// timeMicroMUS serializes time.Time as microseconds since the Unix epoch.
// Sub-microsecond precision and the monotonic clock reading are dropped.
type timeMicroMUS struct{}

func (timeMicroMUS) Marshal(v time.Time, bs []byte) int {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMicroMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func (timeMicroMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

// sortedKeys returns map keys in ascending order so marshal output is
// deterministic: same map, same bytes.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
