//go:build js || wasip1

package charseq

import "errors"

func SplitSentences(text string) ([]string, error) {
	return nil, errors.New("SplitSentences is not implemented")
}
