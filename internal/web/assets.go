package web

type tip struct {
	title string
	body  string
}

var ecoTips = []tip{
	{"Prefiere lo reutilizable.", "Botellas, bolsas y envases que duran años evitan cientos de desechables."},
	{"Mira los materiales.", "Acero inoxidable, vidrio, bambú, madera y algodón orgánico envejecen mejor que el plástico."},
	{"Busca lo recargable.", "Pilas recargables y productos con repuesto reducen residuos peligrosos."},
	{"Compra usado o reacondicionado.", "Extender la vida útil de un producto es la forma más simple de reducir su huella."},
	{"Revisa el envío.", "Agrupar compras y elegir vendedores cercanos reduce emisiones de transporte."},
	{"Desconfía de etiquetas vagas.", "\"Eco\" en el título no es una certificación; busca materiales y certificados concretos."},
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f8f4;color:#1d2b1f}
header{background:#2f6b3a;padding:.75rem 1rem}
nav a{color:#fff;margin-right:1rem;text-decoration:none}
nav a.brand{font-weight:700}
main{max-width:1100px;margin:0 auto;padding:1rem}
form.search{display:flex;gap:.5rem;align-items:center;margin-bottom:1rem}
form.search input[type=search]{flex:1;padding:.5rem}
.error{color:#a12622}
.grid{list-style:none;padding:0;display:grid;grid-template-columns:repeat(auto-fill,minmax(200px,1fr));gap:1rem}
.card{background:#fff;border-radius:8px;padding:.75rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.card a{color:inherit;text-decoration:none}
.card img{width:100%;height:160px;object-fit:contain}
.card h2{font-size:.95rem;margin:.5rem 0}
.card.eco{border:2px solid #3c9a4c}
.badge{background:#3c9a4c;color:#fff;border-radius:4px;padding:.1rem .4rem;font-size:.75rem}
.price{font-weight:700}
.pages{display:flex;justify-content:space-between;margin-top:1rem}
.tips li{margin-bottom:.5rem}
`
