package conversation

import (
	"fmt"
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// TemplateKey identifies one outbound message template.
type TemplateKey string

const (
	KeyWelcome           TemplateKey = "welcome"
	KeyAskProduct        TemplateKey = "ask_product"
	KeyAskIssue          TemplateKey = "ask_issue"
	KeyAskPhotos         TemplateKey = "ask_photos"
	KeyConfirmSummary    TemplateKey = "confirm_summary"
	KeyConfirmPrompt     TemplateKey = "confirm_prompt"
	KeyTicketCreated     TemplateKey = "ticket_created"
	KeyRestart           TemplateKey = "restart"
	KeyCancelled         TemplateKey = "cancelled"
	KeyHelp              TemplateKey = "help"
	KeyStatusReport      TemplateKey = "status_report"
	KeyNoTickets         TemplateKey = "no_tickets"
	KeyUnknown           TemplateKey = "unknown"
	KeyLanguageChanged   TemplateKey = "language_changed"
	KeyDecidedRefund     TemplateKey = "decided_refund"
	KeyDecidedReplace    TemplateKey = "decided_replacement"
	KeyRejected          TemplateKey = "rejected"
	KeyReviewReminder    TemplateKey = "review_reminder"
	KeyPhotoUnsupported  TemplateKey = "photo_unsupported"
)

// Catalog holds the bilingual message templates. Placeholders use the
// {name} form and are substituted by Render.
type Catalog struct {
	messages map[TemplateKey]map[domain.Language]string
}

// NewCatalog builds the default catalog.
func NewCatalog() *Catalog {
	return &Catalog{messages: defaultMessages}
}

// Validate checks that every template has both language variants. Called
// once at startup so a missing translation fails fast.
func (c *Catalog) Validate() error {
	for key, variants := range c.messages {
		for _, lang := range []domain.Language{domain.LanguageArabic, domain.LanguageEnglish} {
			if strings.TrimSpace(variants[lang]) == "" {
				return fmt.Errorf("template %q missing %s variant", key, lang)
			}
		}
	}
	return nil
}

// Render returns the template text for the language with params applied.
// Unknown keys render the fallback re-prompt rather than failing.
func (c *Catalog) Render(key TemplateKey, lang domain.Language, params map[string]string) string {
	variants, ok := c.messages[key]
	if !ok {
		variants = c.messages[KeyUnknown]
	}
	text, ok := variants[lang]
	if !ok || text == "" {
		text = variants[domain.LanguageArabic]
	}
	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}

var defaultMessages = map[TemplateKey]map[domain.Language]string{
	KeyWelcome: {
		domain.LanguageArabic: "مرحباً! 👋 أنا مساعد خدمة العملاء.\n\nكيف يمكنني مساعدتك اليوم؟\n\n1️⃣ تقديم شكوى منتج\n2️⃣ متابعة شكوى سابقة\n3️⃣ المساعدة",
		domain.LanguageEnglish: "Hello! 👋 I'm the customer care assistant.\n\nHow can I help you today?\n\n1️⃣ Submit a product complaint\n2️⃣ Track an existing complaint\n3️⃣ Help",
	},
	KeyAskProduct: {
		domain.LanguageArabic: "📦 من فضلك أخبرني عن المنتج المُشتكى منه:\n\n• اسم المنتج\n• تاريخ الشراء (إن أمكن)",
		domain.LanguageEnglish: "📦 Please tell me about the product:\n\n• Product name\n• Purchase date (if known)",
	},
	KeyAskIssue: {
		domain.LanguageArabic: "📝 شكراً! الآن من فضلك اشرح المشكلة بالتفصيل:\n\nما المشكلة التي واجهتها مع هذا المنتج؟",
		domain.LanguageEnglish: "📝 Thanks! Now please describe the issue in detail:\n\nWhat problem did you experience with this product?",
	},
	KeyAskPhotos: {
		domain.LanguageArabic: "📷 هل تريد إرسال صور للمشكلة؟\n\nيمكنك إرسال صور الآن، أو اكتب \"تخطي\" للمتابعة بدون صور.",
		domain.LanguageEnglish: "📷 Would you like to send photos of the issue?\n\nYou can send photos now, or type \"skip\" to continue without photos.",
	},
	KeyConfirmSummary: {
		domain.LanguageArabic: "📋 ملخص الشكوى:\n\n🏭 المنتج: {product}\n❌ المشكلة: {issue}\n\nهل هذه المعلومات صحيحة؟\n✅ نعم - لإرسال الشكوى\n❌ لا - لتعديل المعلومات",
		domain.LanguageEnglish: "📋 Complaint summary:\n\n🏭 Product: {product}\n❌ Issue: {issue}\n\nIs this information correct?\n✅ Yes - to submit\n❌ No - to edit",
	},
	KeyConfirmPrompt: {
		domain.LanguageArabic: "من فضلك أجب بـ:\n✅ نعم - لتأكيد الشكوى\n❌ لا - لتعديل المعلومات",
		domain.LanguageEnglish: "Please answer:\n✅ Yes - to confirm\n❌ No - to edit",
	},
	KeyTicketCreated: {
		domain.LanguageArabic: "✅ تم إنشاء الشكوى بنجاح!\n\n🎫 رقم التذكرة: {ticket_number}\n\nسيقوم فريقنا بمراجعة شكواك وسنُبلغك بالنتيجة عبر هذه المحادثة.",
		domain.LanguageEnglish: "✅ Complaint submitted successfully!\n\n🎫 Ticket number: {ticket_number}\n\nOur team will review your complaint and notify you of the result through this chat.",
	},
	KeyRestart: {
		domain.LanguageArabic: "لا مشكلة، لنبدأ من جديد.\n\n📦 من فضلك أخبرني عن المنتج المُشتكى منه.",
		domain.LanguageEnglish: "No problem, let's start again.\n\n📦 Please tell me about the product.",
	},
	KeyCancelled: {
		domain.LanguageArabic: "تم إلغاء العملية. ✋\n\nإذا احتجت المساعدة، أنا هنا!",
		domain.LanguageEnglish: "Operation cancelled. ✋\n\nIf you need help, I'm here!",
	},
	KeyHelp: {
		domain.LanguageArabic: "📖 المساعدة\n\nيمكنني مساعدتك في:\n1️⃣ تقديم شكوى منتج\n2️⃣ متابعة شكوى سابقة\n\nأرسل \"1\" لتقديم شكوى وسأطلب منك معلومات المنتج والمشكلة.",
		domain.LanguageEnglish: "📖 Help\n\nI can help you with:\n1️⃣ Submitting a product complaint\n2️⃣ Tracking an existing complaint\n\nSend \"1\" to submit a complaint and I'll ask for the product and issue details.",
	},
	KeyStatusReport: {
		domain.LanguageArabic: "📊 حالة الشكوى\n\n🎫 رقم التذكرة: {ticket_number}\n📍 الحالة: {status}\n🏭 المنتج: {product}",
		domain.LanguageEnglish: "📊 Complaint status\n\n🎫 Ticket number: {ticket_number}\n📍 Status: {status}\n🏭 Product: {product}",
	},
	KeyNoTickets: {
		domain.LanguageArabic: "📭 لم يتم العثور على شكاوى سابقة.\n\nلتقديم شكوى جديدة، اكتب 1 أو \"شكوى\"",
		domain.LanguageEnglish: "📭 No previous complaints found.\n\nTo submit a new complaint, type 1 or \"complaint\"",
	},
	KeyUnknown: {
		domain.LanguageArabic: "عذراً، لم أفهم طلبك. 🤔\n\nاختر من القائمة:\n1️⃣ شكوى جديدة\n2️⃣ متابعة شكوى\n3️⃣ المساعدة",
		domain.LanguageEnglish: "Sorry, I didn't understand. 🤔\n\nChoose from the menu:\n1️⃣ New complaint\n2️⃣ Track complaint\n3️⃣ Help",
	},
	KeyLanguageChanged: {
		domain.LanguageArabic:  "تم تغيير اللغة إلى العربية. ✅",
		domain.LanguageEnglish: "Language switched to English. ✅",
	},
	KeyDecidedRefund: {
		domain.LanguageArabic: "✅ أخبار سارة!\n\n🎫 رقم التذكرة: {ticket_number}\n\nتمت الموافقة على شكواك! 💰 سيتم معالجة استرداد المبلغ خلال 3-5 أيام عمل.",
		domain.LanguageEnglish: "✅ Good news!\n\n🎫 Ticket number: {ticket_number}\n\nYour complaint has been approved! 💰 A refund will be processed within 3-5 business days.",
	},
	KeyDecidedReplace: {
		domain.LanguageArabic: "✅ أخبار سارة!\n\n🎫 رقم التذكرة: {ticket_number}\n\nتمت الموافقة على شكواك! 📦 سيتم إرسال منتج بديل إليك قريباً.",
		domain.LanguageEnglish: "✅ Good news!\n\n🎫 Ticket number: {ticket_number}\n\nYour complaint has been approved! 📦 A replacement product will be sent to you soon.",
	},
	KeyRejected: {
		domain.LanguageArabic: "❌ تحديث بخصوص شكواك\n\n🎫 رقم التذكرة: {ticket_number}\n\nبعد المراجعة الفنية، تبين أنه لا توجد مشكلة في المنتج.\n📝 السبب: {reason}",
		domain.LanguageEnglish: "❌ Update on your complaint\n\n🎫 Ticket number: {ticket_number}\n\nAfter technical review, no product issue was found.\n📝 Reason: {reason}",
	},
	KeyReviewReminder: {
		domain.LanguageArabic:  "⏰ تذكير: شكواك رقم {ticket_number} قيد المراجعة. سيقوم فريقنا بالرد قريباً.",
		domain.LanguageEnglish: "⏰ Reminder: your complaint {ticket_number} is under review. Our team will respond soon.",
	},
	KeyPhotoUnsupported: {
		domain.LanguageArabic:  "📎 عذراً، هذا النوع من المرفقات غير مدعوم. أرسل صورة أو اكتب \"تخطي\".",
		domain.LanguageEnglish: "📎 Sorry, that attachment type isn't supported. Send a photo or type \"skip\".",
	},
}
