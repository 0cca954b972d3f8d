package window

var (
	hannCoeffs            = []float64{0.5, -0.5}
	hammingCoeffs         = []float64{0.54, -0.46}
	blackmanCoeffs        = []float64{0.42, -0.5, 0.08}
	blackmanHarris4Coeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	flatTopCoeffs         = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
	exactBlackmanCoeffs   = []float64{0.42659, -0.49656, 0.076849}
	blackmanHarris3Coeffs = []float64{0.42323, -0.49755, 0.07922}
	blackmanNuttallCoeffs = []float64{0.3635819, -0.4891775, 0.1365995, -0.0106411}
	nuttallCTDCoeffs      = []float64{0.355768, -0.487396, 0.144232, -0.012604}
	nuttallCFDCoeffs      = []float64{0.338946, -0.481973, 0.161054, -0.018027}
	lawrey5Coeffs         = []float64{0.323215218, -0.471492057, 0.17553428, -0.02849699, 0.001261357}
	lawrey6Coeffs         = []float64{0.29309794, -0.45394848, 0.20226297, -0.04801175, 0.00559536, -0.00019845}
	burgess59Coeffs       = []float64{0.392478, -0.47901, 0.1284}
	burgess71Coeffs       = []float64{0.4243801, -0.4973406, 0.0782793}
	albrecht2Coeffs       = []float64{0.5, -0.5}
	albrecht3Coeffs       = []float64{0.4243801, -0.4973406, 0.0782793}
	albrecht4Coeffs       = []float64{0.3635819, -0.4891775, 0.1365995, -0.0106411}
	albrecht5Coeffs       = []float64{0.323215218, -0.471492057, 0.17553428, -0.02849699, 0.001261357}
	albrecht6Coeffs       = []float64{0.29309794, -0.45394848, 0.20226297, -0.04801175, 0.00559536, -0.00019845}
	albrecht7Coeffs       = []float64{0.271220360, -0.433444612, 0.21800412, -0.065785343, 0.01164061, -0.00130752, 0.00006771}
	albrecht8Coeffs       = []float64{0.2533178, -0.412242, 0.225257, -0.078915, 0.018104, -0.002758, 0.000254, -0.000009}
	albrecht9Coeffs       = []float64{0.238289, -0.391879, 0.227211, -0.087655, 0.024601, -0.004791, 0.000654, -0.000059, 0.000002}
	albrecht10Coeffs      = []float64{0.225585, -0.373067, 0.224900, -0.092907, 0.030477, -0.007189, 0.001238, -0.000149, 0.000012, -0.0000005}
	albrecht11Coeffs      = []float64{0.214736, -0.356168, 0.219839, -0.095537, 0.035363, -0.009749, 0.002004, -0.000311, 0.000033, -0.000002, 0.00000008}
)
