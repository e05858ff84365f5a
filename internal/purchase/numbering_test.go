package purchase

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatDocCode(t *testing.T) {
	require.Equal(t, "PU-2082-0042", FormatDocCode(DocTypePurchase, "2082", 42))
	require.Equal(t, "PR-2082-0001", FormatDocCode(DocTypeReturn, "2082", 1))
	// the width is a minimum, not a cap
	require.Equal(t, "PU-2082-12345", FormatDocCode(DocTypePurchase, "2082", 12345))
}

func TestFormatReceiptNo(t *testing.T) {
	require.Equal(t, "PRT-2082-00007", FormatReceiptNo(DocTypePurchase, "2082", 7))
	require.Equal(t, "PRR-2082-00123", FormatReceiptNo(DocTypeReturn, "2082", 123))
}

func TestSequenceKinds(t *testing.T) {
	require.Equal(t, SeqPurchase, docSeqKind(DocTypePurchase))
	require.Equal(t, SeqReturn, docSeqKind(DocTypeReturn))
	require.Equal(t, SeqPurchaseReceipt, receiptSeqKind(DocTypePurchase))
	require.Equal(t, SeqReturnReceipt, receiptSeqKind(DocTypeReturn))
}
