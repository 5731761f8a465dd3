package web

// Item is a titled entry on the home page.
type Item struct {
	Title string
	Desc  string
}

// QA is one FAQ entry.
type QA struct {
	Q string
	A string
}

// SignVideo is an embedded sign-language interpretation of a home section.
type SignVideo struct {
	Show bool
	URL  string
}

// HeroSlides are the rotating hero images under the public directory.
var HeroSlides = []string{"/source/main_image0.jpg", "/source/main_image1.jpg", "/source/main_image2.jpg"}

// FontScales are the selectable text sizes in percent.
var FontScales = []int{100, 125, 150}

var signVideoURLs = map[string]string{
	"intro": "https://www.youtube.com/embed/ArvQ4IZTbq8?mute=1",
	"steps": "https://www.youtube.com/embed/Ah0GHfdMBeY?mute=1",
	"faq":   "https://www.youtube.com/embed/CRQK4E51pN0",
}

// SignVideos returns the per-section sign videos, shown only when enabled.
func SignVideos(show bool) map[string]SignVideo {
	out := make(map[string]SignVideo, len(signVideoURLs))
	for k, u := range signVideoURLs {
		out[k] = SignVideo{Show: show, URL: u}
	}
	return out
}

var Targets = []Item{
	{Title: "이대목동병원을", Desc: "처음 방문하는 초진 환자"},
	{Title: "장애 정도가 심한", Desc: "중증 장애인"},
	{Title: "보호자 없이", Desc: "혼자 방문하는 분"},
}

var Services = []Item{
	{Title: "이동 · 동행 지원", Desc: "혼자 이동하기 힘드신 경우 직원이 밀착 동행합니다. 휠체어 이용, 환복, 검사 중 자세 유지 등 신체적 보조를 지원합니다."},
	{Title: "의사소통 지원", Desc: "전문 수어통역사가 진료 전 과정을 통역합니다. 글자판(필담), 그림판(AAC) 등을 활용해 정확한 의사소통을 돕습니다."},
	{Title: "행정절차 지원", Desc: "키오스크(무인기기) 사용이나 복잡한 서류 작성을 곁에서 도와드립니다. 필요 시 지역사회 내 복지 자원으로 연계해 드립니다."},
	{Title: "맞춤형 진료 지원", Desc: "장애 유형 및 동선을 고려해 진료 일정과 대기 절차를 조정합니다. 진료 후 복약 지도와 다음 내원 절차를 상세히 안내합니다."},
}

var Steps = []Item{
	{Title: "서비스 신청", Desc: "홈페이지, 전화, 카카오톡, 방문을 통해 신청 의사를 전달해주세요."},
	{Title: "사전 상담", Desc: "환자분께 꼭 맞는 지원을 위해 상담을 통해 사전상담지를 작성합니다."},
	{Title: "병원 내원", Desc: "예약일에 병원에 오셔서 편안하게 진료를 받습니다."},
	{Title: "귀가 지원", Desc: "처방전 발급, 약국 이용 안내 후 다음 예약을 도와드립니다."},
}

var FAQ = []QA{
	{Q: "이용료가 무료인가요?", A: "A. 네, 이동 동행이나 수어 통역 등 지원 서비스는 무료입니다. (단, 진료비, 검사비, 약값은 본인이 내셔야 합니다.)"},
	{Q: "장애인이 아니어도 이용할 수 있나요?", A: "A. 원칙적으로는 등록 장애인 환자를 위한 서비스입니다. 하지만 도움이 꼭 필요하신 상황이라면, 센터로 전화 주시면 상담 후 안내해 드리겠습니다."},
	{Q: "집으로 데리러 와 주시나요?", A: "A. 아니요, 집에서 병원까지의 이동은 지원하지 않습니다. 병원에 도착하시면 그때부터 직원이 마중 나가서 진료를 돕습니다."},
	{Q: "오늘 당장 이용할 수 있나요?", A: "A. 가급적 3일 전에 미리 신청해 주세요. 당일 신청은 다른 환자분의 예약 일정으로 어려울 수 있습니다. 급한 경우라면 전화로 먼저 확인해 주세요."},
	{Q: "보호자 없이 혼자 가도 되나요?", A: "A. 네, 걱정하지 마세요. 전문 교육을 받은 직원이 보호자를 대신하여 진료실 이동부터 수납, 약국 이용까지 곁에서 돕습니다."},
}
