package country

// Generated from the platform country catalog; keep keys lowercase ISO 3166-1 alpha-2.

var french = map[string]string{
	"ad": "Andorre",
	"ae": "Émirats Arabes Unis",
	"af": "Afghanistan",
	"ag": "Antigua-et-Barbuda",
	"al": "Albanie",
	"am": "Arménie",
	"ao": "Angola",
	"ar": "Argentine",
	"at": "Autriche",
	"au": "Australie",
	"aw": "Aruba",
	"az": "Azerbaïdjan",
	"ba": "Bosnie-Herzégovine",
	"bb": "Barbade",
	"bd": "Bangladesh",
	"be": "Belgique",
	"bf": "Burkina Faso",
	"bg": "Bulgarie",
	"bh": "Bahreïn",
	"bi": "Burundi",
	"bj": "Bénin",
	"bn": "Brunei Darussalam",
	"bo": "Bolivie",
	"br": "Brésil",
	"bt": "Bhoutan",
	"bw": "Botswana",
	"by": "Biélorussie",
	"bz": "Belize",
	"ca": "Canada",
	"cd": "Congo (RDC)",
	"cf": "République centrafricaine",
	"cg": "Congo",
	"ch": "Suisse",
	"ci": "Côte d’Ivoire",
	"ck": "Îles Cook",
	"cl": "Chili",
	"cm": "Cameroun",
	"cn": "Chine",
	"co": "Colombie",
	"cr": "Costa Rica",
	"cu": "Cuba",
	"cv": "Cap-Vert",
	"cy": "Chypre",
	"cz": "République tchèque",
	"de": "Allemagne",
	"dj": "Djibouti",
	"dk": "Danemark",
	"dm": "Dominique",
	"do": "République dominicaine",
	"dz": "Algérie",
	"ec": "Équateur",
	"ee": "Estonie",
	"eg": "Égypte",
	"er": "Érythrée",
	"es": "Espagne",
	"et": "Éthiopie",
	"fi": "Finlande",
	"fj": "Fidji",
	"fm": "Micronésie",
	"fo": "Îles Féroé",
	"fr": "France",
	"ga": "Gabon",
	"gb": "Royaume-Uni",
	"gd": "Grenade",
	"ge": "Géorgie",
	"gh": "Ghana",
	"gi": "Gibraltar",
	"gl": "Groenland",
	"gm": "Gambie",
	"gn": "Guinée",
	"gp": "Guadeloupe",
	"gq": "Guinée équatoriale",
	"gr": "Grèce",
	"gt": "Guatemala",
	"gw": "Guinée-Bissau",
	"gy": "Guyana",
	"hk": "Hong Kong",
	"hn": "Honduras",
	"hr": "Croatie",
	"ht": "Haïti",
	"hu": "Hongrie",
	"id": "Indonésie",
	"ie": "Irlande",
	"il": "Israël",
	"in": "Inde",
	"iq": "Irak",
	"ir": "Iran",
	"is": "Islande",
	"it": "Italie",
	"jm": "Jamaïque",
	"jo": "Jordanie",
	"jp": "Japon",
	"ke": "Kenya",
	"kg": "Kirghizistan",
	"kh": "Cambodge",
	"ki": "Kiribati",
	"km": "Comores",
	"kn": "Saint-Kitts-et-Nevis",
	"kp": "Corée du Nord",
	"kr": "Corée du Sud",
	"kw": "Koweït",
	"la": "Laos",
	"lb": "Liban",
	"lc": "Sainte-Lucie",
	"li": "Liechtenstein",
	"lk": "Sri Lanka",
	"lr": "Libéria",
	"ls": "Lesotho",
	"lt": "Lituanie",
	"lu": "Luxembourg",
	"lv": "Lettonie",
	"ly": "Libye",
	"ma": "Maroc",
	"mc": "Monaco",
	"md": "Moldavie",
	"me": "Monténégro",
	"mg": "Madagascar",
	"mh": "Îles Marshall",
	"mk": "Macédoine du Nord",
	"ml": "Mali",
	"mm": "Myanmar",
	"mn": "Mongolie",
	"mo": "Macao",
	"mq": "Martinique",
	"mr": "Mauritanie",
	"mt": "Malte",
	"mu": "Maurice",
	"mv": "Maldives",
	"mw": "Malawi",
	"mx": "Mexique",
	"my": "Malaisie",
	"mz": "Mozambique",
	"na": "Namibie",
	"nc": "Nouvelle-Calédonie",
	"ne": "Niger",
	"ng": "Nigeria",
	"ni": "Nicaragua",
	"nl": "Pays-Bas",
	"no": "Norvège",
	"np": "Népal",
	"nr": "Nauru",
	"nz": "Nouvelle-Zélande",
	"om": "Oman",
	"pa": "Panama",
	"pe": "Pérou",
	"pf": "Polynésie française",
	"pg": "Papouasie-Nouvelle-Guinée",
	"ph": "Philippines",
	"pk": "Pakistan",
	"pl": "Pologne",
	"ps": "Palestine",
	"pt": "Portugal",
	"pw": "Palaos",
	"py": "Paraguay",
	"qa": "Qatar",
	"re": "Réunion",
	"ro": "Roumanie",
	"rs": "Serbie",
	"ru": "Russie",
	"rw": "Rwanda",
	"sa": "Arabie Saoudite",
	"sb": "Îles Salomon",
	"sc": "Seychelles",
	"sd": "Soudan",
	"se": "Suède",
	"sg": "Singapour",
	"si": "Slovénie",
	"sk": "Slovaquie",
	"sl": "Sierra Leone",
	"sm": "Saint-Marin",
	"sn": "Sénégal",
	"so": "Somalie",
	"sr": "Suriname",
	"st": "Sao Tomé-et-Principe",
	"sv": "Salvador",
	"sy": "Syrie",
	"sz": "Eswatini",
	"td": "Tchad",
	"tg": "Togo",
	"th": "Thaïlande",
	"tj": "Tadjikistan",
	"tl": "Timor-Leste",
	"tm": "Turkménistan",
	"tn": "Tunisie",
	"to": "Tonga",
	"tr": "Turquie",
	"tt": "Trinité-et-Tobago",
	"tv": "Tuvalu",
	"tw": "Taïwan",
	"tz": "Tanzanie",
	"ua": "Ukraine",
	"ug": "Ouganda",
	"us": "États-Unis",
	"uy": "Uruguay",
	"uz": "Ouzbékistan",
	"vc": "Saint-Vincent-et-les-Grenadines",
	"ve": "Venezuela",
	"vn": "Viêt Nam",
	"vu": "Vanuatu",
	"ws": "Samoa",
	"xk": "Kosovo",
	"ye": "Yémen",
	"za": "Afrique du Sud",
	"zm": "Zambie",
	"zw": "Zimbabwe",
}

var english = map[string]string{
	"ad": "Andorra",
	"ae": "United Arab Emirates",
	"af": "Afghanistan",
	"ag": "Antigua and Barbuda",
	"al": "Albania",
	"am": "Armenia",
	"ao": "Angola",
	"ar": "Argentina",
	"at": "Austria",
	"au": "Australia",
	"aw": "Aruba",
	"az": "Azerbaijan",
	"ba": "Bosnia and Herzegovina",
	"bb": "Barbados",
	"bd": "Bangladesh",
	"be": "Belgium",
	"bf": "Burkina Faso",
	"bg": "Bulgaria",
	"bh": "Bahrain",
	"bi": "Burundi",
	"bj": "Benin",
	"bn": "Brunei Darussalam",
	"bo": "Bolivia",
	"br": "Brazil",
	"bt": "Bhutan",
	"bw": "Botswana",
	"by": "Belarus",
	"bz": "Belize",
	"ca": "Canada",
	"cd": "Congo (DRC)",
	"cf": "Central African Republic",
	"cg": "Congo",
	"ch": "Switzerland",
	"ci": "Ivory coast",
	"ck": "Cook Islands",
	"cl": "Chile",
	"cm": "Cameroon",
	"cn": "China",
	"co": "Colombia",
	"cr": "Costa Rica",
	"cu": "Cuba",
	"cv": "Cape Verde",
	"cy": "Cyprus",
	"cz": "Czech Republic",
	"de": "Germany",
	"dj": "Djibouti",
	"dk": "Denmark",
	"dm": "Dominica",
	"do": "Dominican Republic",
	"dz": "Algeria",
	"ec": "Ecuador",
	"ee": "Estonia",
	"eg": "Egypt",
	"er": "Eritrea",
	"es": "Spain",
	"et": "Ethiopia",
	"fi": "Finland",
	"fj": "Fiji",
	"fm": "Micronesia",
	"fo": "Faroe Islands",
	"fr": "France",
	"ga": "Gabon",
	"gb": "United Kingdom",
	"gd": "Grenada",
	"ge": "Georgia",
	"gh": "Ghana",
	"gi": "Gibraltar",
	"gl": "Greenland",
	"gm": "Gambia",
	"gn": "Guinea",
	"gp": "Guadeloupe",
	"gq": "Equatorial Guinea",
	"gr": "Greece",
	"gt": "Guatemala",
	"gw": "Guinea-Bissau",
	"gy": "Guyana",
	"hk": "Hong Kong",
	"hn": "Honduras",
	"hr": "Croatia",
	"ht": "Haiti",
	"hu": "Hungary",
	"id": "Indonesia",
	"ie": "Ireland",
	"il": "Israel",
	"in": "India",
	"iq": "Iraq",
	"ir": "Iran",
	"is": "Iceland",
	"it": "Italy",
	"jm": "Jamaica",
	"jo": "Jordan",
	"jp": "Japan",
	"ke": "Kenya",
	"kg": "Kyrgyzstan",
	"kh": "Cambodia",
	"ki": "Kiribati",
	"km": "Comoros",
	"kn": "Saint Kitts and Nevis",
	"kp": "North Korea",
	"kr": "South Korea",
	"kw": "Kuwait",
	"la": "Laos",
	"lb": "Lebanon",
	"lc": "Saint Lucia",
	"li": "Liechtenstein",
	"lk": "Sri Lanka",
	"lr": "Liberia",
	"ls": "Lesotho",
	"lt": "Lithuania",
	"lu": "Luxembourg",
	"lv": "Latvia",
	"ly": "Libya",
	"ma": "Morocco",
	"mc": "Monaco",
	"md": "Moldova",
	"me": "Montenegro",
	"mg": "Madagascar",
	"mh": "Marshall Islands",
	"mk": "North Macedonia",
	"ml": "Mali",
	"mm": "Myanmar",
	"mn": "Mongolia",
	"mo": "Macau",
	"mq": "Martinique",
	"mr": "Mauritania",
	"mt": "Malta",
	"mu": "Mauritius",
	"mv": "Maldives",
	"mw": "Malawi",
	"mx": "Mexico",
	"my": "Malaysia",
	"mz": "Mozambique",
	"na": "Namibia",
	"nc": "New Caledonia",
	"ne": "Niger",
	"ng": "Nigeria",
	"ni": "Nicaragua",
	"nl": "Netherlands",
	"no": "Norway",
	"np": "Nepal",
	"nr": "Nauru",
	"nz": "New Zealand",
	"om": "Oman",
	"pa": "Panama",
	"pe": "Peru",
	"pf": "French Polynesia",
	"pg": "Papua New Guinea",
	"ph": "Philippines",
	"pk": "Pakistan",
	"pl": "Poland",
	"ps": "Palestine",
	"pt": "Portugal",
	"pw": "Palau",
	"py": "Paraguay",
	"qa": "Qatar",
	"re": "Reunion",
	"ro": "Romania",
	"rs": "Serbia",
	"ru": "Russia",
	"rw": "Rwanda",
	"sa": "Saudi Arabia",
	"sb": "Solomon Islands",
	"sc": "Seychelles",
	"sd": "Sudan",
	"se": "Sweden",
	"sg": "Singapore",
	"si": "Slovenia",
	"sk": "Slovakia",
	"sl": "Sierra Leone",
	"sm": "San Marino",
	"sn": "Senegal",
	"so": "Somalia",
	"sr": "Suriname",
	"st": "Sao Tome and Principe",
	"sv": "El Salvador",
	"sy": "Syria",
	"sz": "Eswatini",
	"td": "Chad",
	"tg": "Togo",
	"th": "Thailand",
	"tj": "Tajikistan",
	"tl": "Timor-Leste",
	"tm": "Turkmenistan",
	"tn": "Tunisia",
	"to": "Tonga",
	"tr": "Turkey",
	"tt": "Trinidad and Tobago",
	"tv": "Tuvalu",
	"tw": "Taiwan",
	"tz": "Tanzania",
	"ua": "Ukraine",
	"ug": "Uganda",
	"us": "United States",
	"uy": "Uruguay",
	"uz": "Uzbekistan",
	"vc": "Saint Vincent and the Grenadines",
	"ve": "Venezuela",
	"vn": "Vietnam",
	"vu": "Vanuatu",
	"ws": "Samoa",
	"xk": "Kosovo",
	"ye": "Yemen",
	"za": "South Africa",
	"zm": "Zambia",
	"zw": "Zimbabwe",
}
