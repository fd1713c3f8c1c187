package model

// Subject 科目表（subjects）
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Code      string `gorm:"type:varchar(20);not null"                      json:"code"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	SoftDeleteModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// IsCSTCoded 判断科目是否属于 CST 类：
// 代码前三位为 "CST"，或前两位既不是 "CS" 也不是 "CT"。
// 注意 "CS301" / "CT204" 不属于 CST 类，而 "MATH101" 属于。
func (s *Subject) IsCSTCoded() bool {
	return IsCSTCode(s.Code)
}

// IsCSTCode 对科目代码执行 CST 模式匹配
func IsCSTCode(code string) bool {
	if len(code) >= 3 && code[:3] == "CST" {
		return true
	}
	prefix := code
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return prefix != "CS" && prefix != "CT"
}
