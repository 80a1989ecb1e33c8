package store

var funnelFixture = []FunnelStage{
	{Position: 0, Name: "Vues", Value: 1407580, Color: "#3b82f6"},
	{Position: 1, Name: "Ajouts panier", Value: 69332, Color: "#8b5cf6"},
	{Position: 2, Name: "Transactions", Value: 22457, Color: "#10b981"},
}

var productFixture = []Product{
	{ID: "461686", Name: "Article 461686", Sales: 891},
	{ID: "426794", Name: "Article 426794", Sales: 742},
	{ID: "318965", Name: "Article 318965", Sales: 658},
	{ID: "275806", Name: "Article 275806", Sales: 623},
	{ID: "119736", Name: "Article 119736", Sales: 594},
}

var categoryFixture = []Category{
	{Position: 0, Name: "Électronique", Value: 8945, Color: "#3b82f6"},
	{Position: 1, Name: "Mode", Value: 6734, Color: "#8b5cf6"},
	{Position: 2, Name: "Maison", Value: 4523, Color: "#10b981"},
	{Position: 3, Name: "Sport", Value: 2255, Color: "#f59e0b"},
	{Position: 4, Name: "Autres", Value: 3567, Color: "#6b7280"},
}

var hourlyFixture = []int64{
	45230, 38142, 32458, 28934, 31245, 42567,
	58923, 76453, 94532, 112345, 128456, 145678,
	156789, 162345, 171234, 175432, 168234, 159876,
	148765, 132456, 115678, 98765, 76543, 58234,
}

var dailyFixture = []DailyActivity{
	{Weekday: 0, Name: "Lundi", Events: 312456},
	{Weekday: 1, Name: "Mardi", Events: 345678},
	{Weekday: 2, Name: "Mercredi", Events: 378945},
	{Weekday: 3, Name: "Jeudi", Events: 389234},
	{Weekday: 4, Name: "Vendredi", Events: 412567},
	{Weekday: 5, Name: "Samedi", Events: 456789},
	{Weekday: 6, Name: "Dimanche", Events: 398234},
}

var pipelineFixture = []PipelineStage{
	{Position: 0, Name: "Collecte de données", Status: PipelineActive},
	{Position: 1, Name: "Nettoyage automatique", Status: PipelineActive},
	{Position: 2, Name: "Agrégation metrics", Status: PipelineActive},
	{Position: 3, Name: "Analyse temps réel", Status: PipelineRunning},
}
