package purchase

import "fmt"

// Sequence kinds. Each kind owns an independent counter per fiscal period.
const (
	SeqPurchase        = "PURCHASE"
	SeqReturn          = "RETURN"
	SeqPurchaseReceipt = "PURCHASE_RECEIPT"
	SeqReturnReceipt   = "RETURN_RECEIPT"
)

const (
	prefixPurchase        = "PU-"
	prefixReturn          = "PR-"
	prefixPurchaseReceipt = "PRT-"
	prefixReturnReceipt   = "PRR-"

	docNoWidth     = 4
	receiptNoWidth = 5
)

// FormatDocCode renders a document code such as PU-2082-0042: the type
// prefix, the fiscal period code, and the zero-padded sequence number.
func FormatDocCode(t DocType, periodCode string, seq int64) string {
	prefix := prefixPurchase
	if t == DocTypeReturn {
		prefix = prefixReturn
	}
	return fmt.Sprintf("%s%s-%0*d", prefix, periodCode, docNoWidth, seq)
}

// FormatReceiptNo renders a payment receipt number such as PRT-2082-00007.
func FormatReceiptNo(t DocType, periodCode string, seq int64) string {
	prefix := prefixPurchaseReceipt
	if t == DocTypeReturn {
		prefix = prefixReturnReceipt
	}
	return fmt.Sprintf("%s%s-%0*d", prefix, periodCode, receiptNoWidth, seq)
}

// docSeqKind maps a document type to its document-number sequence kind.
func docSeqKind(t DocType) string {
	if t == DocTypeReturn {
		return SeqReturn
	}
	return SeqPurchase
}

// receiptSeqKind maps a document type to its receipt-number sequence kind.
func receiptSeqKind(t DocType) string {
	if t == DocTypeReturn {
		return SeqReturnReceipt
	}
	return SeqPurchaseReceipt
}
