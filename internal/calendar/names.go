package calendar

// Name tables indexed by the numbers this package produces.
var (
	// Stems are the ten heavenly stems.
	Stems = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

	// Branches are the twelve earthly branches.
	Branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

	// Animals are the zodiac animals, indexed by year branch.
	Animals = [12]string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}

	// TermNames lists the 24 solar terms from the vernal equinox.
	TermNames = [24]string{
		"春分", "清明", "谷雨", "立夏", "小满", "芒种",
		"夏至", "小暑", "大暑", "立秋", "处暑", "白露",
		"秋分", "寒露", "霜降", "立冬", "小雪", "大雪",
		"冬至", "小寒", "大寒", "立春", "雨水", "惊蛰",
	}

	// WeekdayNames is indexed by weekday, 0 = Sunday.
	WeekdayNames = [7]string{"日", "一", "二", "三", "四", "五", "六"}

	// WesternZodiac starts with Aquarius, matching SolarDate.WesternZodiac.
	WesternZodiac = [12]string{
		"水瓶座", "双鱼座", "白羊座", "金牛座", "双子座", "巨蟹座",
		"狮子座", "处女座", "天秤座", "天蝎座", "射手座", "摩羯座",
	}

	numerals    = [11]string{"日", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}
	monthNames  = [12]string{"正", "二", "三", "四", "五", "六", "七", "八", "九", "十", "冬", "腊"}
	dayPrefixes = [3]string{"初", "十", "廿"}
)

// MonthName returns the customary name of lunar month (1..12).
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// DayName returns the customary name of lunar day (1..30), e.g. 初一, 廿五.
func DayName(day int) string {
	switch {
	case day < 1 || day > 30:
		return ""
	case day == 10:
		return dayPrefixes[0] + numerals[10]
	case day == 20:
		return numerals[2] + numerals[10]
	case day == 30:
		return numerals[3] + numerals[10]
	}
	return dayPrefixes[day/10] + numerals[day%10]
}

// GanZhiName returns the stem and branch characters of a pillar.
func GanZhiName(stem, branch int) string {
	return Stems[stem] + Branches[branch]
}
