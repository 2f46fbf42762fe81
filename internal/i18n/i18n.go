// Package i18n holds the small bilingual (Turkish/English) message table
// used for user-facing strings: adapter errors, resume tips, export labels.
package i18n

// Lang is a UI language code.
type Lang string

const (
	TR Lang = "tr"
	EN Lang = "en"
)

// Parse returns the language for code, defaulting to English.
func Parse(code string) Lang {
	if code == string(TR) {
		return TR
	}
	return EN
}

var messages = map[string]map[Lang]string{
	"chat.failed": {
		EN: "The assistant could not reply right now. Please try again.",
		TR: "Asistan şu anda yanıt veremiyor. Lütfen tekrar deneyin.",
	},
	"score.unreadable": {
		EN: "Could not read the document. Please upload a valid PDF.",
		TR: "Belge okunamadı. Lütfen geçerli bir PDF yükleyin.",
	},
	"score.tip.email": {
		EN: "Add an email address so recruiters can reach you.",
		TR: "İşverenlerin size ulaşabilmesi için bir e-posta adresi ekleyin.",
	},
	"score.tip.phone": {
		EN: "Add a phone number to your contact details.",
		TR: "İletişim bilgilerinize bir telefon numarası ekleyin.",
	},
	"score.tip.link": {
		EN: "Link a GitHub, LinkedIn or portfolio profile.",
		TR: "GitHub, LinkedIn veya portfolyo profilinizi ekleyin.",
	},
	"score.tip.length": {
		EN: "Your resume is short; expand your experience descriptions.",
		TR: "Özgeçmişiniz kısa; deneyim açıklamalarınızı genişletin.",
	},
	"score.tip.sections": {
		EN: "Add the standard sections: experience, education, skills, contact.",
		TR: "Standart bölümleri ekleyin: deneyim, eğitim, yetenekler, iletişim.",
	},
	"score.tip.keywords": {
		EN: "Use more role and skill keywords relevant to the job.",
		TR: "İşe uygun daha fazla rol ve yetenek anahtar kelimesi kullanın.",
	},
	"auth.invalid-credential": {
		EN: "Email or password is incorrect.",
		TR: "E-posta veya şifre hatalı.",
	},
	"auth.too-many-requests": {
		EN: "Too many attempts. Please wait and try again.",
		TR: "Çok fazla deneme yapıldı. Lütfen bekleyip tekrar deneyin.",
	},
	"auth.email-already-in-use": {
		EN: "This email address is already registered.",
		TR: "Bu e-posta adresi zaten kayıtlı.",
	},
	"auth.weak-password": {
		EN: "Password is too weak. Use at least 6 characters.",
		TR: "Şifre çok zayıf. En az 6 karakter kullanın.",
	},
	"auth.invalid-email": {
		EN: "Email address is not valid.",
		TR: "E-posta adresi geçerli değil.",
	},
	"auth.generic": {
		EN: "Something went wrong. Please try again.",
		TR: "Bir şeyler ters gitti. Lütfen tekrar deneyin.",
	},
	"export.title": {
		EN: "Job Applications",
		TR: "İş Başvuruları",
	},
	"export.col.no": {
		EN: "#",
		TR: "#",
	},
	"export.col.company": {
		EN: "Company",
		TR: "Şirket",
	},
	"export.col.position": {
		EN: "Position",
		TR: "Pozisyon",
	},
	"export.col.date": {
		EN: "Date",
		TR: "Tarih",
	},
	"export.col.status": {
		EN: "Status",
		TR: "Durum",
	},
	"export.col.platform": {
		EN: "Platform",
		TR: "Platform",
	},
	"export.col.cv": {
		EN: "CV Version",
		TR: "CV Versiyonu",
	},
	"export.col.notes": {
		EN: "Notes",
		TR: "Notlar",
	},
}

// T returns the message for key in lang, falling back to English, then to
// the key itself so a missing entry is visible rather than silent.
func T(lang Lang, key string) string {
	m, ok := messages[key]
	if !ok {
		return key
	}
	if s, ok := m[lang]; ok {
		return s
	}
	return m[EN]
}
