package content

import (
	"time"

	"shoestore/models"
)

const (
	SlugFAQ      = "faq"
	SlugPrivacy  = "privacy-policy"
	SlugShipping = "shipping-policy"
	SlugReturn   = "return-policy"

	aboutID = "main"
)

var slugs = []string{SlugFAQ, SlugPrivacy, SlugShipping, SlugReturn}

func ValidSlug(slug string) bool {
	for _, s := range slugs {
		if s == slug {
			return true
		}
	}
	return false
}

var defaultFAQ = []models.FAQItem{
	{
		Question: "كيف يمكنني إرجاع منتج؟",
		Answer:   "يمكنك إرجاع المنتج خلال 14 يوماً من تاريخ الاستلام. يجب أن يكون المنتج بحالته الأصلية مع جميع الملحقات والتغليف. يرجى التواصل مع خدمة العملاء لبدء عملية الإرجاع.",
	},
	{
		Question: "ما هي سياسة الشحن؟",
		Answer:   "نقدم خدمة شحن مجانية للطلبات التي تتجاوز قيمتها 200 ريال. يتم الشحن خلال 2-5 أيام عمل.",
	},
	{
		Question: "هل يمكنني تغيير مقاس المنتج بعد الشراء؟",
		Answer:   "نعم، يمكنك تغيير المقاس خلال فترة الإرجاع (14 يوماً). يرجى التواصل مع خدمة العملاء لتنسيق عملية الاستبدال.",
	},
	{
		Question: "ما هي طرق الدفع المتاحة؟",
		Answer:   "نقبل جميع البطاقات الائتمانية الرئيسية، ومدى، والدفع عند الاستلام.",
	},
	{
		Question: "كيف يمكنني تتبع طلبي؟",
		Answer:   "بعد إتمام الطلب يمكنك متابعة حالته من صفحة الطلب باستخدام رقم الطلب.",
	},
}

// DefaultPage is the content written the first time slug is read.
func DefaultPage(slug string) models.PolicyPage {
	p := models.PolicyPage{Slug: slug, LastUpdated: time.Now()}
	switch slug {
	case SlugFAQ:
		p.Title = "الأسئلة الشائعة"
		p.FAQItems = append([]models.FAQItem(nil), defaultFAQ...)
	case SlugPrivacy:
		p.Title = "سياسة الخصوصية"
		p.Content = "هذه سياسة الخصوصية تصف كيفية جمع واستخدام وحماية معلوماتك الشخصية عند استخدام موقعنا."
	case SlugShipping:
		p.Title = "سياسة الشحن والتوصيل"
		p.Content = "تعرف على طرق الشحن وأوقات التوصيل ومعلومات التتبع."
	case SlugReturn:
		p.Title = "سياسة الإرجاع"
		p.Content = "سياسة الإرجاع لدينا تحدد الشروط والأحكام لإرجاع المنتجات."
	}
	return p
}

func DefaultAbout() models.About {
	now := time.Now()
	return models.About{
		ID:          aboutID,
		Title:       "من نحن",
		Description: "متجر متخصص في الأحذية العصرية والرياضية بأفضل الأسعار.",
		Mission:     "أن نقدم لعملائنا أحذية مريحة وعالية الجودة بتجربة تسوق سهلة.",
		Vision:      "أن نكون الوجهة الأولى لشراء الأحذية عبر الإنترنت في المنطقة.",
		Values:      []string{"الجودة", "الأمانة", "خدمة العملاء"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
