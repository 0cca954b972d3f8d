package window

import "math"

var metadataByType = map[Type]Metadata{
	TypeRectangular: {
		Name:                "Rectangular",
		ENBW:                1.000,
		HighestSidelobe:     -13.3,
		CoherentGain:        1.0,
		CoherentGainSquared: 1.0,
	},
	TypeHann: {
		Name:                "Hann",
		ENBW:                1.500,
		HighestSidelobe:     -31.5,
		CoherentGain:        0.5,
		CoherentGainSquared: 0.25,
	},
	TypeHamming: {
		Name:                "Hamming",
		ENBW:                1.363,
		HighestSidelobe:     -42.7,
		CoherentGain:        0.54,
		CoherentGainSquared: 0.2916,
	},
	TypeBlackman: {
		Name:                "Blackman",
		ENBW:                1.727,
		HighestSidelobe:     -58.1,
		CoherentGain:        0.42,
		CoherentGainSquared: 0.1764,
	},
	TypeBlackmanHarris4Term: {
		Name:                "Blackman-Harris 4T",
		ENBW:                2.004,
		HighestSidelobe:     -92.0,
		CoherentGain:        0.35875,
		CoherentGainSquared: 0.1287015625,
	},
	TypeFlatTop: {
		Name:                "FlatTop",
		ENBW:                3.770,
		HighestSidelobe:     -93.0,
		CoherentGain:        0.21557895,
		CoherentGainSquared: 0.0464742836831025,
	},
	TypeKaiser: {
		Name:                "Kaiser",
		ENBW:                1.7218,
		HighestSidelobe:     -63.24,
		CoherentGain:        0.420698,
		CoherentGainSquared: 0.176986807204,
	},
	TypeTukey: {
		Name:                "Tukey",
		ENBW:                1.2225,
		HighestSidelobe:     -15.12,
		CoherentGain:        0.749817,
		CoherentGainSquared: 0.562225533489,
	},
	TypeTriangle: {
		Name:                "Triangle",
		ENBW:                1.333,
		HighestSidelobe:     -26.5,
		CoherentGain:        0.5,
		CoherentGainSquared: 0.25,
	},
	TypeCosine: {
		Name:                "Cosine",
		ENBW:                1.233,
		HighestSidelobe:     -23.0,
		CoherentGain:        2 / math.Pi,
		CoherentGainSquared: (2 / math.Pi) * (2 / math.Pi),
	},
	TypeWelch: {
		Name:                "Welch",
		ENBW:                1.200,
		HighestSidelobe:     -21.3,
		CoherentGain:        2.0 / 3.0,
		CoherentGainSquared: 4.0 / 9.0,
	},
	TypeLanczos: {
		Name:                "Lanczos",
		ENBW:                1.2994,
		HighestSidelobe:     -26.41,
		CoherentGain:        0.589346,
		CoherentGainSquared: 0.347328707716,
	},
	TypeGauss: {
		Name:                "Gauss",
		ENBW:                1.6719,
		HighestSidelobe:     -54.70,
		CoherentGain:        0.424305,
		CoherentGainSquared: 0.180034733025,
	},
	TypeExactBlackman: {
		Name:                "Exact Blackman",
		ENBW:                1.693,
		HighestSidelobe:     -68.2,
		CoherentGain:        0.42659,
		CoherentGainSquared: 0.1819790281,
	},
	TypeBlackmanHarris3Term: {
		Name:                "Blackman-Harris 3T",
		ENBW:                1.708,
		HighestSidelobe:     -70.9,
		CoherentGain:        0.42323,
		CoherentGainSquared: 0.1791236329,
	},
	TypeBlackmanNuttall: {
		Name:                "Blackman-Nuttall",
		ENBW:                1.976,
		HighestSidelobe:     -98.2,
		CoherentGain:        0.3635819,
		CoherentGainSquared: 0.13219179800761,
	},
	TypeNuttallCTD: {
		Name:                "Nuttall CTD",
		ENBW:                1.976,
		HighestSidelobe:     -98.1,
		CoherentGain:        0.355768,
		CoherentGainSquared: 0.126570869824,
	},
	TypeNuttallCFD: {
		Name:                "Nuttall CFD",
		ENBW:                2.021,
		HighestSidelobe:     -93.3,
		CoherentGain:        0.338946,
		CoherentGainSquared: 0.114884390916,
	},
	TypeFreeCosine: {
		Name:                "Free Cosine",
		ENBW:                math.NaN(),
		HighestSidelobe:     math.NaN(),
		CoherentGain:        math.NaN(),
		CoherentGainSquared: math.NaN(),
	},
}
