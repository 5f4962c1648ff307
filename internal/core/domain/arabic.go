package domain

import "fmt"

// Arabic display names for request types, keyed by enum value rather than
// inlined at call sites.
var requestTypeNamesAr = map[RequestType]string{
	TypeInvoice:        "فاتورة",
	TypeCarWash:        "غسيل سيارة",
	TypeCarInspection:  "فحص وتوثيق",
	TypeAdvancePayment: "سلفة مالية",
}

// DisplayNameAr returns the Arabic display name of a request type.
func (t RequestType) DisplayNameAr() string {
	if name, ok := requestTypeNamesAr[t]; ok {
		return name
	}
	return string(t)
}

var requestStatusNamesAr = map[RequestStatus]string{
	StatusPending:   "قيد الانتظار",
	StatusApproved:  "تمت الموافقة",
	StatusRejected:  "مرفوض",
	StatusInReview:  "قيد المراجعة",
	StatusCancelled: "ملغي",
	StatusCompleted: "مكتمل",
	StatusClosed:    "مغلق",
}

// DisplayNameAr returns the Arabic display name of a request status.
func (s RequestStatus) DisplayNameAr() string {
	if name, ok := requestStatusNamesAr[s]; ok {
		return name
	}
	return string(s)
}

// Arabic notification texts produced on review.
const (
	ApprovedTitleAr = "تمت الموافقة على طلبك"
	RejectedTitleAr = "تم رفض طلبك"
	CreatedTitleAr  = "تم استلام طلبك"
)

// ApprovedMessageAr builds the approval notification body for a request type.
func ApprovedMessageAr(t RequestType) string {
	return fmt.Sprintf("تمت الموافقة على طلب %s", t.DisplayNameAr())
}

// RejectedMessageAr builds the rejection notification body with the reason appended.
func RejectedMessageAr(t RequestType, reason string) string {
	return fmt.Sprintf("تم رفض طلب %s: %s", t.DisplayNameAr(), reason)
}

// CreatedMessageAr builds the submission acknowledgment body.
func CreatedMessageAr(t RequestType, requestID int64) string {
	return fmt.Sprintf("تم استلام طلب %s رقم #%d وهو قيد المراجعة", t.DisplayNameAr(), requestID)
}
