package columns

// ContactRules locate the columns of the Film_dev call-status tab. Status and
// phone are required; the rest are best effort.
var ContactRules = []Rule{
	{
		Field:    Status,
		Exact:    []string{"status_call", "statuscall", "status call", "สถานะ", "status"},
		AllOf:    []string{"status", "call"},
		Required: true,
	},
	{
		Field:    Phone,
		Exact:    []string{"เบอร์โทร", "เบอร์", "phone", "tel", "telephone"},
		Contains: []string{"เบอร์โทร", "phone", "tel"},
		Required: true,
	},
	{
		Field:    Name,
		Exact:    []string{"ชื่อ", "name", "ชื่อลูกค้า", "customer name"},
		Contains: []string{"ชื่อ", "name"},
	},
	{
		Field:    Remarks,
		Exact:    []string{"หมายเหตุ", "remarks", "remark", "note", "notes"},
		Contains: []string{"หมายเหตุ", "remark", "note"},
	},
	{
		Field:    Product,
		Exact:    []string{"ผลิตภัณฑ์ที่สนใจ", "ผลิตภัณฑ์", "product", "สินค้า"},
		Contains: []string{"ผลิตภัณฑ์", "product"},
	},
}

// SurgeryRules locate the "Film data" surgery schedule tab. That tab has a
// fixed header, so only exact names are accepted.
var SurgeryRules = []Rule{
	{Field: Doctor, Exact: []string{"หมอ"}, Required: true},
	{Field: Person, Exact: []string{"ผู้ติดต่อ"}, Required: true},
	{Field: Name, Exact: []string{"ชื่อ"}, Required: true},
	{Field: Phone, Exact: []string{"เบอร์โทร"}, Required: true},
	{Field: Date, Exact: []string{"วันที่ได้นัดผ่าตัด"}, Required: true},
	{Field: Time, Exact: []string{"เวลาที่นัด"}, Required: true},
	{Field: Amount, Exact: []string{"ยอดนำเสนอ"}, Required: true},
}
