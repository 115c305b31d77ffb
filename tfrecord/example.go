package tfrecord

import (
	"errors"
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/wbrown/charseq/types"
)

// SeqFeature is the feature name every record stores its sequence under.
const SeqFeature = "seq"

var ErrFeatureType = errors.New("tfrecord: feature is not an int64 list")

// Field numbers of the tf.train.Example message family.
const (
	exampleFeatures  protowire.Number = 1 // Example.features
	featuresFeature  protowire.Number = 1 // Features.feature (map entries)
	mapEntryKey      protowire.Number = 1
	mapEntryValue    protowire.Number = 2
	featureBytesList protowire.Number = 1
	featureFloatList protowire.Number = 2
	featureInt64List protowire.Number = 3
	int64ListValue   protowire.Number = 1
)

// EncodeSequence
// Serializes a sequence as a tf.train.Example holding a single int64 list
// feature named `seq`.
func EncodeSequence(seq types.Sequence) []byte {
	return EncodeInt64Features(map[string][]int64{SeqFeature: seq.Int64s()})
}

// EncodeInt64Features
// Serializes named int64 lists as a tf.train.Example. Features are emitted in
// sorted key order so identical inputs produce identical bytes.
func EncodeInt64Features(features map[string][]int64) []byte {
	keys := make([]string, 0, len(features))
	for key := range features {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var featuresMsg []byte
	for _, key := range keys {
		var packed []byte
		for _, v := range features[key] {
			packed = protowire.AppendVarint(packed, uint64(v))
		}
		var int64List []byte
		int64List = protowire.AppendTag(int64List, int64ListValue,
			protowire.BytesType)
		int64List = protowire.AppendBytes(int64List, packed)

		var feature []byte
		feature = protowire.AppendTag(feature, featureInt64List,
			protowire.BytesType)
		feature = protowire.AppendBytes(feature, int64List)

		var entry []byte
		entry = protowire.AppendTag(entry, mapEntryKey, protowire.BytesType)
		entry = protowire.AppendString(entry, key)
		entry = protowire.AppendTag(entry, mapEntryValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, feature)

		featuresMsg = protowire.AppendTag(featuresMsg, featuresFeature,
			protowire.BytesType)
		featuresMsg = protowire.AppendBytes(featuresMsg, entry)
	}

	var example []byte
	example = protowire.AppendTag(example, exampleFeatures,
		protowire.BytesType)
	example = protowire.AppendBytes(example, featuresMsg)
	return example
}

// ParseSeq
// Parses one serialized record and returns the dense sequence stored under
// the `seq` feature, in order. A record without the feature yields an empty
// sequence. This is the read contract training code imports.
func ParseSeq(record []byte) (types.Sequence, error) {
	values, _, err := ParseInt64Feature(record, SeqFeature)
	if err != nil {
		return nil, err
	}
	return types.SequenceFromInt64s(values), nil
}

// ParseInt64Feature
// Finds the feature `name` in a serialized tf.train.Example and decodes it as
// an int64 list. Both packed and unpacked encodings are accepted. The boolean
// reports whether the feature was present.
func ParseInt64Feature(record []byte, name string) ([]int64, bool, error) {
	var values []int64
	found := false
	err := eachField(record, func(num protowire.Number, typ protowire.Type,
		body []byte) error {
		if num != exampleFeatures || typ != protowire.BytesType {
			return nil
		}
		return eachField(body, func(num protowire.Number,
			typ protowire.Type, entry []byte) error {
			if num != featuresFeature || typ != protowire.BytesType {
				return nil
			}
			key, feature, entryErr := parseMapEntry(entry)
			if entryErr != nil {
				return entryErr
			}
			if key != name {
				return nil
			}
			// Map semantics: the last entry for a key wins.
			parsed, featureErr := parseInt64List(feature)
			if featureErr != nil {
				return fmt.Errorf("feature %q: %w", name, featureErr)
			}
			values = parsed
			found = true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	if values == nil {
		values = []int64{}
	}
	return values, found, nil
}

func parseMapEntry(entry []byte) (key string, value []byte, err error) {
	err = eachField(entry, func(num protowire.Number, typ protowire.Type,
		body []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case mapEntryKey:
			key = string(body)
		case mapEntryValue:
			value = body
		}
		return nil
	})
	return key, value, err
}

func parseInt64List(feature []byte) ([]int64, error) {
	values := make([]int64, 0)
	err := eachField(feature, func(num protowire.Number, typ protowire.Type,
		body []byte) error {
		switch num {
		case featureBytesList, featureFloatList:
			return ErrFeatureType
		case featureInt64List:
			values = values[:0]
			return eachField(body, func(num protowire.Number,
				typ protowire.Type, list []byte) error {
				if num != int64ListValue {
					return nil
				}
				switch typ {
				case protowire.VarintType:
					// eachField hands varints over still encoded.
					v, n := protowire.ConsumeVarint(list)
					if n < 0 {
						return protowire.ParseError(n)
					}
					values = append(values, int64(v))
					return nil
				case protowire.BytesType:
				default:
					return fmt.Errorf("%w: int64 value has wire type %d",
						ErrFeatureType, typ)
				}
				for len(list) > 0 {
					v, n := protowire.ConsumeVarint(list)
					if n < 0 {
						return protowire.ParseError(n)
					}
					values = append(values, int64(v))
					list = list[n:]
				}
				return nil
			})
		}
		return nil
	})
	return values, err
}

// eachField walks the top level fields of a protobuf message. Length
// delimited fields are passed as their payload; every other wire type is
// passed as its raw encoded value.
func eachField(msg []byte, fn func(protowire.Number, protowire.Type,
	[]byte) error) error {
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return protowire.ParseError(n)
		}
		msg = msg[n:]
		var body []byte
		if typ == protowire.BytesType {
			payload, m := protowire.ConsumeBytes(msg)
			if m < 0 {
				return protowire.ParseError(m)
			}
			body = payload
			n = m
		} else {
			n = protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return protowire.ParseError(n)
			}
			body = msg[:n]
		}
		if err := fn(num, typ, body); err != nil {
			return err
		}
		msg = msg[n:]
	}
	return nil
}
