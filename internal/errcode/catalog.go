package errcode

const (
	Unknown Code = iota
	Validation
	Link
	MaxUsage
	Recaptcha
	NoShowDate
	NoShow
	Unauthorized
	NoFile
	AlreadyPaid
	WrongFileType
	FileTooBig
	AlreadyCancelled
	AlreadyUsed
	UserRoleExists
	CodeNotSent
	WrongPassword
	Wrong2FA
	AssignPurchaseToHCP
	LinkPackageToHCP
	AssignPurchaseToPatient
	NotReady
	NotWaiting
	NotInUse
	FinalInvoiceNotFound
	FinalInvoiceMultiple
	FinalInvoiceAmountMissing
	FinalInvoiceBudget
	HealthCreditTooSmall
	Forbidden
	OnlyOneRole
	OneRoleRemaining
	NotFound
	Blocked
	Wait
	DailyUploadLimit
	ContactExists
	PackageAlreadyAssigned
	PhoneExists
	EmailExists
	SendAccountInvitation
	InfluencerCode
	CodeAlreadyUsed
	CodeNotFound
	CannotDeleteProfile
	MinRecommendationAmount
	CountryExists
	WrongAPIKey
	MemberExists
	MemberRoleExists
	InvalidInvoice
	GoogleAdminAuth
	InvalidGoogleAccount
	WrongPatientCode

	maxCode
)

var catalog = [...]struct {
	code Code
	key  string
}{
	{Unknown, "errors.unknown"},
	{Validation, "errors.validation"},
	{Link, "errors.link"},
	{MaxUsage, "errors.max-usage"},
	{Recaptcha, "errors.recaptcha"},
	{NoShowDate, "errors.noShowDateError"},
	{NoShow, "errors.noShowError"},
	{Unauthorized, "errors.unauthorized"},
	{NoFile, "errors.nofile"},
	{AlreadyPaid, "errors.already-payed"},
	{WrongFileType, "errors.wrong-file-type"},
	{FileTooBig, "errors.max-file-size"},
	{AlreadyCancelled, "errors.already-cancelled"},
	{AlreadyUsed, "errors.already-used"},
	{UserRoleExists, "errors.user-role-exist"},
	{CodeNotSent, "errors.send-code-error"},
	{WrongPassword, "errors.wrongpassword"},
	{Wrong2FA, "errors.wrong2fa"},
	{AssignPurchaseToHCP, "errors.assign-chp"},
	{LinkPackageToHCP, "errors.link-hcpackage"},
	{AssignPurchaseToPatient, "errors.assign-patient"},
	{NotReady, "errors.not-ready"},
	{NotWaiting, "errors.not-waiting"},
	{NotInUse, "errors.not-inuse"},
	{FinalInvoiceNotFound, "errors.final-invoice-fund"},
	{FinalInvoiceMultiple, "errors.final-invoice-are-multiple"},
	{FinalInvoiceAmountMissing, "errors.final-amount-missing"},
	{FinalInvoiceBudget, "errors.final-amount-budget"},
	{HealthCreditTooSmall, "errors.healt-credit-small"},
	{Forbidden, "errors.forbidden"},
	{OnlyOneRole, "errors.one-role"},
	{OneRoleRemaining, "errors.one-role-rest"},
	{NotFound, "errors.not-found"},
	{Blocked, "errors.blocked"},
	{Wait, "errors.wait"},
	{DailyUploadLimit, "errors.max-file-size-per-day-wait"},
	{ContactExists, "errors.contact-already-exist"},
	{PackageAlreadyAssigned, "errors.package-already-assigned"},
	{PhoneExists, "errors.phone-already-exist"},
	{EmailExists, "errors.email-already-exist"},
	{SendAccountInvitation, "errors.send-create-account-invitation"},
	{InfluencerCode, "errors.influencer-code"},
	{CodeAlreadyUsed, "errors.code-already-use"},
	{CodeNotFound, "errors.code-not-found"},
	{CannotDeleteProfile, "errors.delete-profile"},
	{MinRecommendationAmount, "errors.min-recommandation-amount"},
	{CountryExists, "errors.country-already-exist"},
	{WrongAPIKey, "errors.wrong-api-key"},
	{MemberExists, "errors.member-already-exist"},
	{MemberRoleExists, "errors.member-role-exist"},
	{InvalidInvoice, "errors.not-valid-invoice"},
	{GoogleAdminAuth, "errors.error-google-admin-auth"},
	{InvalidGoogleAccount, "errors.invalid-google-account"},
	{WrongPatientCode, "errors.worng-patient-code"},
}
