package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassifyGatewayError(t *testing.T) {
	err := wrap(KindNotFound, "update_work_order", gorm.ErrRecordNotFound)
	require.Equal(t, KindNotFound, Classify(err))
	require.True(t, IsNotFound(err))

	// The kind survives further wrapping.
	wrapped := errors.Wrap(err, "saving work order")
	require.Equal(t, KindNotFound, Classify(wrapped))
}

func TestClassifyDefaultsToTransient(t *testing.T) {
	require.Equal(t, KindTransient, Classify(errors.New("connection refused")))
	require.Equal(t, KindTransient, Classify(context.DeadlineExceeded))
}

func TestClassifyBulkCorruption(t *testing.T) {
	var syntaxErr *json.SyntaxError
	if err := json.Unmarshal([]byte("{bad"), &struct{}{}); err != nil {
		require.ErrorAs(t, err, &syntaxErr)
		classified := classifyBulk("fetch_all", err)
		require.Equal(t, KindSessionCorrupted, Classify(classified))
	}
}

func TestClassifyBulkPassesThroughPlainErrors(t *testing.T) {
	classified := classifyBulk("fetch_all", errors.New("dial tcp: connection refused"))
	require.Equal(t, KindTransient, Classify(classified))
}
